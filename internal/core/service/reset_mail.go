package service

import (
	"bytes"
	"fmt"
	"html/template"
)

var resetMailTmpl = template.Must(template.New("reset").Parse(`<div style="border: 1px solid black; padding: 20px; font-family: sans-serif; line-height: 2; font-size: 20px;">
  <h2>Hello {{.Name}},</h2>
  <p>Your password reset link is ready.</p>
  <p><a href="{{.Link}}">Click here to reset your password</a></p>
  <p>If you did not ask for this, you can ignore this email.</p>
</div>`))

func renderResetMail(name, link string) (string, error) {
	var buf bytes.Buffer
	if err := resetMailTmpl.Execute(&buf, struct{ Name, Link string }{name, link}); err != nil {
		return "", fmt.Errorf("render reset mail: %w", err)
	}
	return buf.String(), nil
}
