// Package apitest hosts an in-memory double of the storefront backend. It
// serves the same route table the real API exposes, mints HS256 tokens, and
// verifies bcrypt password hashes, so client code can be exercised against a
// genuine HTTP surface in tests.
package apitest

import (
	"crypto/rand"
	"fmt"
	"net/http"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"golang.org/x/crypto/bcrypt"

	"github.com/trendora/storefront-client/internal/core/domain"
)

const tokenTTL = 24 * time.Hour

type account struct {
	user domain.User
	hash string
}

// forced is a one-shot canned error response.
type forced struct {
	status int
	body   any
}

// Server is the backend double. It implements http.Handler; wrap it in
// httptest.NewServer to obtain a base URL.
type Server struct {
	e      *echo.Echo
	secret string

	mu       sync.Mutex
	accounts map[string]*account // keyed by email
	products []domain.Product
	force    *forced
}

func NewServer() *Server {
	s := &Server{
		e:        echo.New(),
		secret:   "apitest-secret",
		accounts: make(map[string]*account),
	}
	s.e.HideBanner = true
	s.e.Use(echomiddleware.Recover())
	s.e.Use(echomiddleware.RequestID())
	s.e.Use(s.forcedResponse)

	v1 := s.e.Group("/api/v1")
	v1.POST("/auth/signup", s.signup)
	v1.POST("/auth/login", s.login)
	v1.POST("/auth/forgot-password", s.forgotPassword)
	v1.POST("/auth/reset-password", s.resetPassword)

	v1.GET("/user/profile", s.profile, s.requireAuth)
	v1.PUT("/user/update", s.updateProfile, s.requireAuth)
	v1.GET("/users/users", s.listUsers, s.requireAuth, s.requireAdmin)

	v1.GET("/products/", s.listProducts)
	v1.GET("/products/hot-deals", s.hotDeals)
	v1.GET("/products/category/:category", s.byCategory)
	v1.GET("/products/:id/related", s.related)
	v1.GET("/product/:id", s.getProduct)
	v1.POST("/product/create", s.createProduct, s.requireAuth, s.requireAdmin)
	v1.PUT("/product/update/:id", s.updateProduct, s.requireAuth, s.requireAdmin)
	v1.DELETE("/product/delete/:id", s.deleteProduct, s.requireAuth, s.requireAdmin)

	return s
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.e.ServeHTTP(w, r)
}

// ForceError makes the next request answer with the given status and body,
// bypassing the route. Used to test error-message extraction.
func (s *Server) ForceError(status int, body any) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.force = &forced{status: status, body: body}
}

// SeedUser registers an account with a bcrypt-hashed password and returns
// its record.
func (s *Server) SeedUser(name, email, password, role string) domain.User {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	if err != nil {
		panic(err)
	}
	user := domain.User{
		ID:        newID("usr"),
		Name:      name,
		Email:     email,
		Role:      role,
		CreatedAt: time.Now().UTC(),
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.accounts[email] = &account{user: user, hash: string(hash)}
	return user
}

// SeedProducts replaces the catalog.
func (s *Server) SeedProducts(products []domain.Product) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.products = append([]domain.Product(nil), products...)
}

// IssueToken mints a token for email exactly as login would, with the given
// time-to-live (negative values produce an already-expired token).
func (s *Server) IssueToken(email string, ttl time.Duration) string {
	s.mu.Lock()
	acc := s.accounts[email]
	s.mu.Unlock()
	role := domain.RoleUser
	if acc != nil {
		role = acc.user.Role
	}
	return s.mintToken(email, role, ttl)
}

func (s *Server) mintToken(email, role string, ttl time.Duration) string {
	claims := jwt.MapClaims{
		"sub":  email,
		"role": role,
		"exp":  time.Now().Add(ttl).Unix(),
	}
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := t.SignedString([]byte(s.secret))
	if err != nil {
		panic(err)
	}
	return signed
}

func newID(prefix string) string {
	b := make([]byte, 4)
	if _, err := rand.Read(b); err != nil {
		return fmt.Sprintf("%s_%08X", prefix, time.Now().UnixNano()&0xFFFFFFFF)
	}
	return fmt.Sprintf("%s_%08X", prefix, b)
}

// middleware

func (s *Server) forcedResponse(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		s.mu.Lock()
		f := s.force
		s.force = nil
		s.mu.Unlock()
		if f != nil {
			if f.body == nil {
				return c.NoContent(f.status)
			}
			return c.JSON(f.status, f.body)
		}
		return next(c)
	}
}

// requireAuth validates the bearer token and stashes the caller's email and
// role on the context.
func (s *Server) requireAuth(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		header := c.Request().Header.Get("Authorization")
		if header == "" {
			return c.JSON(http.StatusUnauthorized, echo.Map{"message": "missing authorization header"})
		}
		parts := strings.SplitN(header, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
			return c.JSON(http.StatusUnauthorized, echo.Map{"message": "invalid authorization header"})
		}

		claims := jwt.MapClaims{}
		tkn, err := jwt.ParseWithClaims(parts[1], claims, func(token *jwt.Token) (interface{}, error) {
			if token.Method.Alg() != jwt.SigningMethodHS256.Alg() {
				return nil, jwt.ErrTokenSignatureInvalid
			}
			return []byte(s.secret), nil
		})
		if err != nil || !tkn.Valid {
			return c.JSON(http.StatusUnauthorized, echo.Map{"message": "invalid token"})
		}

		c.Set("email", claims["sub"])
		c.Set("role", claims["role"])
		return next(c)
	}
}

func (s *Server) requireAdmin(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		if role, _ := c.Get("role").(string); role != domain.RoleAdmin {
			return c.JSON(http.StatusForbidden, echo.Map{"message": "admin access required"})
		}
		return next(c)
	}
}

// auth handlers

func (s *Server) signup(c echo.Context) error {
	email := c.FormValue("email")
	password := c.FormValue("password")
	if email == "" || password == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "email and password are required"})
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.accounts[email]; exists {
		return c.JSON(http.StatusConflict, echo.Map{"message": "user already exists"})
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "hashing failed"})
	}
	user := domain.User{
		ID:        newID("usr"),
		Name:      c.FormValue("name"),
		Surname:   c.FormValue("surname"),
		Email:     email,
		Mobile:    c.FormValue("mobile"),
		Role:      domain.RoleUser,
		CreatedAt: time.Now().UTC(),
	}
	s.accounts[email] = &account{user: user, hash: string(hash)}

	return c.JSON(http.StatusCreated, echo.Map{
		"jwt":  s.mintToken(email, user.Role, tokenTTL),
		"user": user,
	})
}

func (s *Server) login(c echo.Context) error {
	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid payload"})
	}

	s.mu.Lock()
	acc := s.accounts[req.Email]
	s.mu.Unlock()
	if acc == nil || bcrypt.CompareHashAndPassword([]byte(acc.hash), []byte(req.Password)) != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"message": "invalid email or password"})
	}

	return c.JSON(http.StatusOK, echo.Map{
		"jwt":  s.mintToken(req.Email, acc.user.Role, tokenTTL),
		"user": acc.user,
	})
}

func (s *Server) forgotPassword(c echo.Context) error {
	var req struct {
		Email string `json:"email"`
	}
	if err := c.Bind(&req); err != nil || req.Email == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "email is required"})
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "Reset email sent to " + req.Email})
}

func (s *Server) resetPassword(c echo.Context) error {
	var req struct {
		Token           string `json:"token"`
		NewPassword     string `json:"newPassword"`
		ConfirmPassword string `json:"confirmPassword"`
	}
	if err := c.Bind(&req); err != nil || req.Token == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid reset token"})
	}
	if req.NewPassword == "" || req.NewPassword != req.ConfirmPassword {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "passwords do not match"})
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "Password has been reset"})
}

// user handlers

func (s *Server) caller(c echo.Context) *account {
	email, _ := c.Get("email").(string)
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.accounts[email]
}

func (s *Server) profile(c echo.Context) error {
	acc := s.caller(c)
	if acc == nil {
		return c.JSON(http.StatusNotFound, echo.Map{"message": "user not found"})
	}
	return c.JSON(http.StatusOK, acc.user)
}

func (s *Server) updateProfile(c echo.Context) error {
	acc := s.caller(c)
	if acc == nil {
		return c.JSON(http.StatusNotFound, echo.Map{"message": "user not found"})
	}

	var req struct {
		Name    string `json:"name" form:"name"`
		Surname string `json:"surname" form:"surname"`
		Mobile  string `json:"mobile" form:"mobile"`
	}
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid payload"})
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if req.Name != "" {
		acc.user.Name = req.Name
	}
	if req.Surname != "" {
		acc.user.Surname = req.Surname
	}
	if req.Mobile != "" {
		acc.user.Mobile = req.Mobile
	}
	acc.user.UpdatedAt = time.Now().UTC()
	return c.JSON(http.StatusOK, acc.user)
}

func (s *Server) listUsers(c echo.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	users := make([]domain.User, 0, len(s.accounts))
	for _, acc := range s.accounts {
		users = append(users, acc.user)
	}
	sort.Slice(users, func(i, j int) bool { return users[i].Email < users[j].Email })
	return c.JSON(http.StatusOK, users)
}

// product handlers

func (s *Server) listProducts(c echo.Context) error {
	category := c.QueryParam("category")
	search := strings.ToLower(c.QueryParam("search"))

	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]domain.Product, 0, len(s.products))
	for _, p := range s.products {
		if category != "" && p.Category != category {
			continue
		}
		if search != "" && !strings.Contains(strings.ToLower(p.Title), search) {
			continue
		}
		out = append(out, p)
	}
	return c.JSON(http.StatusOK, out)
}

func (s *Server) hotDeals(c echo.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]domain.Product, 0)
	for _, p := range s.products {
		if p.DiscountPercent > 0 {
			out = append(out, p)
		}
	}
	return c.JSON(http.StatusOK, out)
}

func (s *Server) byCategory(c echo.Context) error {
	category := c.Param("category")
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]domain.Product, 0)
	for _, p := range s.products {
		if p.Category == category {
			out = append(out, p)
		}
	}
	return c.JSON(http.StatusOK, out)
}

func (s *Server) related(c echo.Context) error {
	id := c.Param("id")
	s.mu.Lock()
	defer s.mu.Unlock()
	var category string
	for _, p := range s.products {
		if p.ID == id {
			category = p.Category
			break
		}
	}
	out := make([]domain.Product, 0)
	for _, p := range s.products {
		if p.ID != id && p.Category == category && category != "" {
			out = append(out, p)
		}
	}
	return c.JSON(http.StatusOK, out)
}

func (s *Server) getProduct(c echo.Context) error {
	id := c.Param("id")
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, p := range s.products {
		if p.ID == id {
			return c.JSON(http.StatusOK, p)
		}
	}
	return c.JSON(http.StatusNotFound, echo.Map{"message": "product not found"})
}

// productFromForm reads the scalar multipart fields of a create/update
// request. Image parts are acknowledged by name only.
func productFromForm(c echo.Context, p *domain.Product) {
	if v := c.FormValue("title"); v != "" {
		p.Title = v
	}
	if v := c.FormValue("category"); v != "" {
		p.Category = v
	}
	if v := c.FormValue("description"); v != "" {
		p.Description = v
	}
	var price float64
	if _, err := fmt.Sscanf(c.FormValue("price"), "%g", &price); err == nil {
		p.Price = price
	}
	var discount float64
	if _, err := fmt.Sscanf(c.FormValue("discountPercent"), "%g", &discount); err == nil {
		p.DiscountPercent = discount
	}
	if form, err := c.MultipartForm(); err == nil {
		for _, fh := range form.File["images"] {
			p.Images = append(p.Images, fh.Filename)
		}
	}
}

func (s *Server) createProduct(c echo.Context) error {
	p := domain.Product{ID: newID("prd")}
	productFromForm(c, &p)
	if p.Title == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "title is required"})
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.products = append([]domain.Product{p}, s.products...)
	return c.JSON(http.StatusCreated, p)
}

func (s *Server) updateProduct(c echo.Context) error {
	id := c.Param("id")
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, p := range s.products {
		if p.ID == id {
			updated := p
			productFromForm(c, &updated)
			s.products[i] = updated
			return c.JSON(http.StatusOK, updated)
		}
	}
	return c.JSON(http.StatusNotFound, echo.Map{"message": "product not found"})
}

func (s *Server) deleteProduct(c echo.Context) error {
	id := c.Param("id")
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, p := range s.products {
		if p.ID == id {
			s.products = append(s.products[:i:i], s.products[i+1:]...)
			return c.JSON(http.StatusOK, echo.Map{"message": "product deleted"})
		}
	}
	return c.JSON(http.StatusNotFound, echo.Map{"message": "product not found"})
}
