package handler

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/sickfits/storefront-api/internal/core/domain"
	"github.com/sickfits/storefront-api/internal/core/ports"
)

// newContext builds an echo context with the validator registered and, when
// caller is non-nil, an identity attached the way the Identity middleware does.
func newContext(method, target, body string, caller *domain.Identity) (echo.Context, *httptest.ResponseRecorder) {
	e := echo.New()
	e.Validator = NewValidator()

	var r io.Reader
	if body != "" {
		r = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, r)
	if body != "" {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	if caller != nil {
		req = req.WithContext(domain.WithIdentity(req.Context(), caller))
	}
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

func member(id string, perms ...domain.Permission) *domain.Identity {
	if len(perms) == 0 {
		perms = domain.DefaultPermissions()
	}
	return &domain.Identity{UserID: id, User: &domain.User{ID: id, Email: id + "@example.com", Permissions: perms}}
}

func sessionCookie(rec *httptest.ResponseRecorder) *http.Cookie {
	for _, c := range rec.Result().Cookies() {
		if c.Name == "token" {
			return c
		}
	}
	return nil
}

// --- service stubs ---

type stubAuthService struct {
	signUpFn       func(ctx context.Context, in ports.SignUpInput) (*ports.Session, error)
	loginFn        func(ctx context.Context, email, password string) (*ports.Session, error)
	signoutFn      func(ctx context.Context, caller *domain.Identity) error
	requestResetFn func(ctx context.Context, email string) (string, error)
	resetFn        func(ctx context.Context, in ports.ResetPasswordInput) (*ports.Session, error)
}

func (s *stubAuthService) SignUp(ctx context.Context, in ports.SignUpInput) (*ports.Session, error) {
	return s.signUpFn(ctx, in)
}

func (s *stubAuthService) Login(ctx context.Context, email, password string) (*ports.Session, error) {
	return s.loginFn(ctx, email, password)
}

func (s *stubAuthService) Signout(ctx context.Context, caller *domain.Identity) error {
	return s.signoutFn(ctx, caller)
}

func (s *stubAuthService) RequestReset(ctx context.Context, email string) (string, error) {
	return s.requestResetFn(ctx, email)
}

func (s *stubAuthService) ResetPassword(ctx context.Context, in ports.ResetPasswordInput) (*ports.Session, error) {
	return s.resetFn(ctx, in)
}

type stubUserService struct {
	meFn     func(ctx context.Context, caller *domain.Identity) (*domain.User, error)
	usersFn  func(ctx context.Context, caller *domain.Identity) ([]*domain.User, error)
	updateFn func(ctx context.Context, caller *domain.Identity, userID string, perms []domain.Permission) (*domain.User, error)
}

func (s *stubUserService) Me(ctx context.Context, caller *domain.Identity) (*domain.User, error) {
	return s.meFn(ctx, caller)
}

func (s *stubUserService) Users(ctx context.Context, caller *domain.Identity) ([]*domain.User, error) {
	return s.usersFn(ctx, caller)
}

func (s *stubUserService) UpdatePermissions(ctx context.Context, caller *domain.Identity, userID string, perms []domain.Permission) (*domain.User, error) {
	return s.updateFn(ctx, caller, userID, perms)
}

type stubItemService struct {
	createFn func(ctx context.Context, caller *domain.Identity, in ports.CreateItemInput) (*domain.Item, error)
	updateFn func(ctx context.Context, caller *domain.Identity, id string, patch domain.ItemPatch) (*domain.Item, error)
	deleteFn func(ctx context.Context, caller *domain.Identity, id string) (*domain.Item, error)
	itemFn   func(ctx context.Context, id string) (*domain.Item, error)
	itemsFn  func(ctx context.Context, filter ports.ListItemsFilter) ([]*domain.Item, error)
	countFn  func(ctx context.Context) (int64, error)
}

func (s *stubItemService) CreateItem(ctx context.Context, caller *domain.Identity, in ports.CreateItemInput) (*domain.Item, error) {
	return s.createFn(ctx, caller, in)
}

func (s *stubItemService) UpdateItem(ctx context.Context, caller *domain.Identity, id string, patch domain.ItemPatch) (*domain.Item, error) {
	return s.updateFn(ctx, caller, id, patch)
}

func (s *stubItemService) DeleteItem(ctx context.Context, caller *domain.Identity, id string) (*domain.Item, error) {
	return s.deleteFn(ctx, caller, id)
}

func (s *stubItemService) Item(ctx context.Context, id string) (*domain.Item, error) {
	return s.itemFn(ctx, id)
}

func (s *stubItemService) Items(ctx context.Context, filter ports.ListItemsFilter) ([]*domain.Item, error) {
	return s.itemsFn(ctx, filter)
}

func (s *stubItemService) ItemsCount(ctx context.Context) (int64, error) {
	return s.countFn(ctx)
}

type stubCartService struct {
	addFn    func(ctx context.Context, caller *domain.Identity, itemID string) (*domain.CartItem, error)
	removeFn func(ctx context.Context, caller *domain.Identity, cartItemID string) (*domain.CartItem, error)
	cartFn   func(ctx context.Context, caller *domain.Identity) (*ports.Cart, error)
}

func (s *stubCartService) AddToCart(ctx context.Context, caller *domain.Identity, itemID string) (*domain.CartItem, error) {
	return s.addFn(ctx, caller, itemID)
}

func (s *stubCartService) RemoveFromCart(ctx context.Context, caller *domain.Identity, cartItemID string) (*domain.CartItem, error) {
	return s.removeFn(ctx, caller, cartItemID)
}

func (s *stubCartService) Cart(ctx context.Context, caller *domain.Identity) (*ports.Cart, error) {
	return s.cartFn(ctx, caller)
}

type stubOrderService struct {
	createFn func(ctx context.Context, caller *domain.Identity, sourceToken string) (*domain.Order, error)
	orderFn  func(ctx context.Context, caller *domain.Identity, id string) (*domain.Order, error)
	ordersFn func(ctx context.Context, caller *domain.Identity, userID string) ([]*domain.Order, error)
}

func (s *stubOrderService) CreateOrder(ctx context.Context, caller *domain.Identity, sourceToken string) (*domain.Order, error) {
	return s.createFn(ctx, caller, sourceToken)
}

func (s *stubOrderService) Order(ctx context.Context, caller *domain.Identity, id string) (*domain.Order, error) {
	return s.orderFn(ctx, caller, id)
}

func (s *stubOrderService) Orders(ctx context.Context, caller *domain.Identity, userID string) ([]*domain.Order, error) {
	return s.ordersFn(ctx, caller, userID)
}
