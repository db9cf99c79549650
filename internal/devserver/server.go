package devserver

import (
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/gridstash/gridstash/internal/logging"
)

const tokenLifetime = 24 * time.Hour

// Server is the development backend.
type Server struct {
	echo   *echo.Echo
	store  *memStore
	secret []byte
	logger *logging.Logger
}

// New creates a development server signing tokens with secret.
func New(secret string, logger *logging.Logger) *Server {
	if logger == nil {
		logger = logging.NewLogger("server")
	}

	s := &Server{
		echo:   echo.New(),
		store:  newMemStore(),
		secret: []byte(secret),
		logger: logger,
	}

	s.echo.HideBanner = true
	s.echo.HidePort = true
	s.echo.Use(middleware.Recover())
	s.echo.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins: []string{"*"},
		AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodDelete},
		AllowHeaders: []string{echo.HeaderAuthorization, echo.HeaderContentType},
	}))

	s.echo.POST("/auth/login", s.handleLogin)
	s.echo.POST("/auth/register", s.handleRegister)

	authorized := s.echo.Group("/files", s.requireAuth)
	authorized.POST("/upload_file", s.handleUpload)
	authorized.GET("/view_files", s.handleViewFiles)
	authorized.GET("/read_file", s.handleReadFile)
	authorized.DELETE("/delete_file/:file_id", s.handleDeleteFile)

	return s
}

// Handler returns the HTTP handler, for tests and embedding.
func (s *Server) Handler() http.Handler {
	return s.echo
}

// Start runs the server on addr until it fails or is shut down.
func (s *Server) Start(addr string) error {
	s.logger.Info().Str("addr", addr).Msg("development server listening")
	return s.echo.Start(addr)
}

// detail writes the backend's error body shape.
func detail(c echo.Context, status int, msg string) error {
	return c.JSON(status, map[string]string{"detail": msg})
}

func (s *Server) issueToken(userID string) (string, error) {
	claims := jwt.RegisteredClaims{
		Subject:   userID,
		IssuedAt:  jwt.NewNumericDate(time.Now()),
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(tokenLifetime)),
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
}

// requireAuth validates the bearer token and stores the user id on the
// request context.
func (s *Server) requireAuth(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		header := c.Request().Header.Get(echo.HeaderAuthorization)
		raw, found := strings.CutPrefix(header, "Bearer ")
		if !found || raw == "" {
			return detail(c, http.StatusUnauthorized, "Not authenticated")
		}

		token, err := jwt.ParseWithClaims(raw, &jwt.RegisteredClaims{}, func(t *jwt.Token) (any, error) {
			if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, jwt.ErrSignatureInvalid
			}
			return s.secret, nil
		})
		if err != nil || !token.Valid {
			return detail(c, http.StatusUnauthorized, "Invalid or expired token")
		}

		claims := token.Claims.(*jwt.RegisteredClaims)
		c.Set("user_id", claims.Subject)
		return next(c)
	}
}

func userID(c echo.Context) string {
	id, _ := c.Get("user_id").(string)
	return id
}

func (s *Server) handleLogin(c echo.Context) error {
	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := c.Bind(&req); err != nil {
		return detail(c, http.StatusBadRequest, "Invalid request body")
	}

	u, ok := s.store.authenticate(req.Email, req.Password)
	if !ok {
		return detail(c, http.StatusUnauthorized, "Invalid credentials")
	}

	token, err := s.issueToken(u.ID)
	if err != nil {
		return detail(c, http.StatusInternalServerError, "Failed to issue token")
	}
	return c.JSON(http.StatusOK, map[string]string{"access_token": token})
}

func (s *Server) handleRegister(c echo.Context) error {
	var req struct {
		Name     string `json:"name"`
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := c.Bind(&req); err != nil {
		return detail(c, http.StatusBadRequest, "Invalid request body")
	}
	if req.Email == "" || req.Password == "" {
		return detail(c, http.StatusBadRequest, "Email and password are required")
	}

	if err := s.store.addUser(req.Name, req.Email, req.Password); err != nil {
		return detail(c, http.StatusBadRequest, "Email already registered")
	}

	s.logger.Info().Str("email", req.Email).Msg("user registered")
	return c.JSON(http.StatusOK, map[string]string{"message": "Registration successful"})
}

func (s *Server) handleUpload(c echo.Context) error {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		return detail(c, http.StatusBadRequest, "No file provided")
	}
	if fileHeader.Size > MaxUploadBytes {
		return detail(c, http.StatusBadRequest, "File too large")
	}

	src, err := fileHeader.Open()
	if err != nil {
		return detail(c, http.StatusBadRequest, "Could not read uploaded file")
	}
	defer src.Close()

	content, err := io.ReadAll(io.LimitReader(src, MaxUploadBytes+1))
	if err != nil {
		return detail(c, http.StatusBadRequest, "Could not read uploaded file")
	}
	if len(content) > MaxUploadBytes {
		return detail(c, http.StatusBadRequest, "File too large")
	}

	record, err := s.store.addFile(userID(c), fileHeader.Filename, content)
	if err != nil {
		return detail(c, http.StatusBadRequest, err.Error())
	}

	s.logger.Info().Str("file", record.Name).Int64("size", record.SizeBytes).Msg("file uploaded")
	return c.JSON(http.StatusOK, record)
}

func (s *Server) handleViewFiles(c echo.Context) error {
	return c.JSON(http.StatusOK, s.store.listFiles(userID(c)))
}

func (s *Server) handleReadFile(c echo.Context) error {
	fileID := c.QueryParam("file_id")
	if fileID == "" {
		return detail(c, http.StatusBadRequest, "file_id is required")
	}

	page, err := strconv.Atoi(c.QueryParam("page"))
	if err != nil || page < 1 {
		page = 1
	}
	pageSize, err := strconv.Atoi(c.QueryParam("page_size"))
	if err != nil || pageSize < 1 {
		pageSize = 100
	}

	file, ok := s.store.findFile(userID(c), fileID)
	if !ok {
		return detail(c, http.StatusNotFound, "File not found")
	}
	return c.JSON(http.StatusOK, file.page(page, pageSize))
}

func (s *Server) handleDeleteFile(c echo.Context) error {
	fileID := c.Param("file_id")
	if !s.store.deleteFile(userID(c), fileID) {
		return detail(c, http.StatusNotFound, "File not found")
	}
	return c.JSON(http.StatusOK, map[string]string{"message": "File deleted"})
}
