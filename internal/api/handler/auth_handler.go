package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/sickfits/storefront-api/internal/core/ports"
)

// AuthHandler serves the credential lifecycle: signup, login, signout and
// the password reset flow. Successful calls that mint a session set it as an
// httpOnly cookie; the token never appears in a response body.
type AuthHandler struct {
	authService     ports.AuthService
	cookie          CookieOptions
	exposeResetLink bool
}

// NewAuthHandler builds an AuthHandler. exposeResetLink echoes the reset link
// in the response and must only be enabled in development.
func NewAuthHandler(authService ports.AuthService, cookie CookieOptions, exposeResetLink bool) *AuthHandler {
	return &AuthHandler{authService: authService, cookie: cookie, exposeResetLink: exposeResetLink}
}

// SignUp creates a new account and signs it in.
//
// @Summary      Sign up
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      signUpRequest  true  "Account details"
// @Success      201   {object}  userResponse
// @Failure      400   {object}  map[string]string
// @Failure      409   {object}  map[string]string
// @Router       /auth/signup [post]
func (h *AuthHandler) SignUp(c echo.Context) error {
	var req signUpRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	session, err := h.authService.SignUp(c.Request().Context(), ports.SignUpInput{
		Email:    req.Email,
		Name:     req.Name,
		Password: req.Password,
	})
	if err != nil {
		return err
	}

	h.cookie.set(c, session.Token)
	return c.JSON(http.StatusCreated, toUserResponse(session.User))
}

// Login authenticates by email and password.
//
// @Summary      Login
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      loginRequest  true  "Login credentials"
// @Success      200   {object}  userResponse
// @Failure      400   {object}  map[string]string
// @Failure      401   {object}  map[string]string
// @Router       /auth/login [post]
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	session, err := h.authService.Login(c.Request().Context(), req.Email, req.Password)
	if err != nil {
		return err
	}

	h.cookie.set(c, session.Token)
	return c.JSON(http.StatusOK, toUserResponse(session.User))
}

// Signout clears the session cookie.
//
// @Summary      Sign out
// @Tags         auth
// @Produce      json
// @Success      200  {object}  messageResponse
// @Failure      401  {object}  map[string]string
// @Router       /auth/signout [post]
func (h *AuthHandler) Signout(c echo.Context) error {
	if err := h.authService.Signout(c.Request().Context(), callerFrom(c)); err != nil {
		return err
	}
	h.cookie.clear(c)
	return c.JSON(http.StatusOK, messageResponse{Message: "Goodbye!"})
}

// RequestReset emails a password reset link.
//
// @Summary      Request a password reset
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      requestResetRequest  true  "Account email"
// @Success      200   {object}  messageResponse
// @Failure      400   {object}  map[string]string
// @Failure      404   {object}  map[string]string
// @Router       /auth/request-reset [post]
func (h *AuthHandler) RequestReset(c echo.Context) error {
	var req requestResetRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	link, err := h.authService.RequestReset(c.Request().Context(), req.Email)
	if err != nil {
		return err
	}

	resp := messageResponse{Message: "Check your email for a reset link"}
	if h.exposeResetLink {
		resp.ResetLink = link
	}
	return c.JSON(http.StatusOK, resp)
}

// ResetPassword redeems a reset token and signs the user in.
//
// @Summary      Reset password
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      resetPasswordRequest  true  "Reset token and new password"
// @Success      200   {object}  userResponse
// @Failure      400   {object}  map[string]string
// @Router       /auth/reset [post]
func (h *AuthHandler) ResetPassword(c echo.Context) error {
	var req resetPasswordRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}

	session, err := h.authService.ResetPassword(c.Request().Context(), ports.ResetPasswordInput{
		UserID:          req.ID,
		Token:           req.ResetToken,
		Password:        req.Password,
		ConfirmPassword: req.ConfirmPassword,
	})
	if err != nil {
		return err
	}

	h.cookie.set(c, session.Token)
	return c.JSON(http.StatusOK, toUserResponse(session.User))
}
