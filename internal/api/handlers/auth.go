package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/solvehub/server/internal/api/middleware"
	"github.com/solvehub/server/internal/store"
	"github.com/solvehub/server/internal/utils"
)

const sessionTTL = 24 * time.Hour

// POST /api/v1/auth/sign-up
// RegisterUser godoc
// @Summary Register a new account
// @Description Creates an account from username, email and password. Email must be unique.
// @Tags Auth
// @Accept json
// @Produce json
// @Success 201 {object} utils.Payload
// @Failure 400 {object} utils.Payload
// @Router /api/v1/auth/sign-up [post]
func RegisterUser(w http.ResponseWriter, r *http.Request) {
	var input struct {
		Username string `json:"username"`
		Email    string `json:"email"`
		Password string `json:"password"`
	}

	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&input); err != nil {
		utils.Fail(w, http.StatusBadRequest, "Invalid input")
		return
	}

	if input.Email == "" || input.Username == "" || input.Password == "" {
		utils.Fail(w, http.StatusBadRequest, "Invalid input")
		return
	}

	if err := posts.Register(r.Context(), input.Username, input.Email, input.Password); err != nil {
		if errors.Is(err, store.ErrDuplicateEmail) {
			utils.Fail(w, http.StatusBadRequest, "Email already exists")
			return
		}
		internalError(w, "register", err)
		return
	}

	// no session yet; the client logs in separately
	utils.OK(w, http.StatusCreated, "Account created! Please login.", nil)
}

// POST /api/v1/auth/login
// LoginUser godoc
// @Summary Log in with email and password
// @Description Verifies credentials and sets the session cookie.
// @Tags Auth
// @Accept json
// @Produce json
// @Success 200 {object} utils.Payload
// @Failure 401 {object} utils.Payload
// @Router /api/v1/auth/login [post]
func LoginUser(w http.ResponseWriter, r *http.Request) {
	var input struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}

	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&input); err != nil {
		utils.Fail(w, http.StatusBadRequest, "Invalid input")
		return
	}

	if input.Email == "" || input.Password == "" {
		utils.Fail(w, http.StatusBadRequest, "Invalid input")
		return
	}

	sess, err := posts.Authenticate(r.Context(), input.Email, input.Password)
	if err != nil {
		if errors.Is(err, store.ErrInvalidCredentials) {
			utils.Fail(w, http.StatusUnauthorized, "Invalid credentials")
			return
		}
		internalError(w, "login", err)
		return
	}

	if err := issueSessionCookie(w, sess); err != nil {
		internalError(w, "sign token", err)
		return
	}

	utils.OK(w, http.StatusOK, "Logged in!", sess)
}

// POST /api/v1/auth/logout
func Logout(w http.ResponseWriter, r *http.Request) {
	isProd := envs.Environment == "production"

	// maxAge < 0 deletes the cookie
	http.SetCookie(w, &http.Cookie{
		Name:     middleware.CookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		Secure:   isProd,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})

	utils.OK(w, http.StatusOK, "Logged out.", nil)
}

// issueSessionCookie signs the session into a JWT and sets it as an
// HttpOnly cookie. The anti-forgery token rides inside the claims and is
// also returned to the client in the login response body.
func issueSessionCookie(w http.ResponseWriter, sess store.Session) error {
	expiration := time.Now().Add(sessionTTL)
	claims := &middleware.Claims{
		UserID:   sess.UserID,
		Username: sess.Username,
		CSRF:     sess.Token,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(expiration),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString([]byte(envs.JWTSecret))
	if err != nil {
		return err
	}

	isProd := envs.Environment == "production"
	sameSite := http.SameSiteLaxMode
	if isProd {
		sameSite = http.SameSiteNoneMode
	}

	http.SetCookie(w, &http.Cookie{
		Name:     middleware.CookieName,
		Value:    tokenString,
		Path:     "/",
		MaxAge:   int(time.Until(expiration).Seconds()),
		Secure:   isProd,
		HttpOnly: true,
		SameSite: sameSite,
	})
	return nil
}
