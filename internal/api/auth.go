package api

import (
	"database/sql"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/careconnect/server/internal/auth"
	"github.com/careconnect/server/internal/model"
	"github.com/careconnect/server/internal/notify"
	"github.com/careconnect/server/internal/session"
	"github.com/careconnect/server/internal/store"
	"github.com/careconnect/server/internal/watch"
)

// AuthHandler handles sign-up, verification and session endpoints.
type AuthHandler struct {
	DB        *sql.DB
	JWTSecret string
	Sender    notify.Sender
	Broker    *session.Broker
	Profiles  *session.Aggregator
	Hub       *watch.Hub
}

type signupRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Mobile   string `json:"mobile"`
	Password string `json:"password"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginResponse struct {
	Token string      `json:"token"`
	User  *model.User `json:"user"`
}

type verifyRequest struct {
	Email string `json:"email"`
	Code  string `json:"code"`
}

type resendRequest struct {
	Email   string `json:"email"`
	Channel string `json:"channel"`
}

type resetRequest struct {
	Email string `json:"email"`
}

type resetConfirmRequest struct {
	Email       string `json:"email"`
	Code        string `json:"code"`
	NewPassword string `json:"new_password"`
}

// Signup handles POST /api/auth/signup. The account is created unverified;
// a verification code goes out on each contact channel and no session is
// issued until both are confirmed.
func (h *AuthHandler) Signup(w http.ResponseWriter, r *http.Request) {
	var req signupRequest
	if err := decodeJSON(r, &req); err != nil {
		jsonError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	req.Name = strings.TrimSpace(req.Name)
	req.Email = strings.TrimSpace(strings.ToLower(req.Email))
	req.Mobile = strings.TrimSpace(req.Mobile)

	if req.Name == "" || req.Email == "" || req.Mobile == "" || req.Password == "" {
		jsonError(w, http.StatusBadRequest, "name, email, mobile and password required")
		return
	}
	if !strings.Contains(req.Email, "@") {
		jsonError(w, http.StatusBadRequest, "Invalid email format. Please enter a valid email.")
		return
	}
	if len(req.Password) < 6 {
		jsonError(w, http.StatusBadRequest, "Password should be at least 6 characters long.")
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		jsonError(w, http.StatusInternalServerError, "failed to hash password")
		return
	}

	user, err := store.CreateUser(r.Context(), h.DB, uuid.NewString(),
		req.Name, req.Email, req.Mobile, string(hash), model.RoleDonor)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	// Delivery failures are logged but don't fail the signup; the account
	// already exists and codes can be re-requested.
	if err := h.issueCode(r, user, store.ChannelEmail); err != nil {
		zap.L().Warn("email verification delivery failed",
			zap.String("uid", user.UID), zap.Error(err))
	}
	if err := h.issueCode(r, user, store.ChannelMobile); err != nil {
		zap.L().Warn("mobile verification delivery failed",
			zap.String("uid", user.UID), zap.Error(err))
	}

	h.Hub.Publish("users/"+user.UID, user)
	zap.L().Info("user signed up", zap.String("uid", user.UID), zap.String("email", user.Email))
	jsonResponse(w, http.StatusCreated, user)
}

// Login handles POST /api/auth/login. A session is refused until both the
// email and the mobile number have been verified.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := decodeJSON(r, &req); err != nil {
		jsonError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if req.Email == "" || req.Password == "" {
		jsonError(w, http.StatusBadRequest, "email and password required")
		return
	}

	user, err := store.GetUserByEmail(r.Context(), h.DB, strings.ToLower(req.Email))
	if err != nil {
		jsonError(w, http.StatusInternalServerError, "internal error")
		return
	}
	if user == nil {
		jsonError(w, http.StatusUnauthorized, "No user found with this email.")
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		zap.L().Warn("login failed", zap.String("email", req.Email), zap.String("remote", r.RemoteAddr))
		jsonError(w, http.StatusUnauthorized, "Incorrect password. Please try again.")
		return
	}

	if !user.EmailVerified {
		jsonError(w, http.StatusForbidden, "Your email is not verified. Please check your inbox.")
		return
	}
	if !user.MobileVerified {
		jsonError(w, http.StatusForbidden, "Your mobile number is not verified. Please verify it first.")
		return
	}

	token, err := auth.GenerateToken(h.JWTSecret, user.UID, user.Email, user.Role)
	if err != nil {
		jsonError(w, http.StatusInternalServerError, "failed to generate token")
		return
	}

	h.Broker.Publish(session.Event{UID: user.UID, State: session.SignedIn})
	zap.L().Info("user logged in", zap.String("uid", user.UID), zap.String("role", user.Role))
	jsonResponse(w, http.StatusOK, loginResponse{Token: token, User: user})
}

// Logout handles POST /api/auth/logout by revoking the session token.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	claims := GetClaims(r.Context())
	if claims == nil {
		jsonError(w, http.StatusUnauthorized, "not authenticated")
		return
	}

	if err := store.RevokeToken(r.Context(), h.DB, claims.ID, claims.ExpiresAt.Time); err != nil {
		jsonError(w, http.StatusInternalServerError, "failed to revoke token")
		return
	}

	h.Broker.Publish(session.Event{UID: claims.UID, State: session.SignedOut})
	zap.L().Info("user logged out", zap.String("uid", claims.UID))
	jsonResponse(w, http.StatusOK, map[string]string{"message": "logged out"})
}

// VerifyEmail handles POST /api/auth/verify-email.
func (h *AuthHandler) VerifyEmail(w http.ResponseWriter, r *http.Request) {
	h.verifyChannel(w, r, store.ChannelEmail)
}

// VerifyMobile handles POST /api/auth/verify-mobile.
func (h *AuthHandler) VerifyMobile(w http.ResponseWriter, r *http.Request) {
	h.verifyChannel(w, r, store.ChannelMobile)
}

func (h *AuthHandler) verifyChannel(w http.ResponseWriter, r *http.Request, channel string) {
	var req verifyRequest
	if err := decodeJSON(r, &req); err != nil {
		jsonError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if req.Email == "" || req.Code == "" {
		jsonError(w, http.StatusBadRequest, "email and code required")
		return
	}

	user, err := store.GetUserByEmail(r.Context(), h.DB, strings.ToLower(req.Email))
	if err != nil {
		jsonError(w, http.StatusInternalServerError, "internal error")
		return
	}
	if user == nil {
		jsonError(w, http.StatusNotFound, "No user found with this email.")
		return
	}

	if err := h.consumeCode(r, user.UID, channel, req.Code); err != nil {
		writeDomainError(w, err)
		return
	}

	if channel == store.ChannelEmail {
		err = store.SetEmailVerified(r.Context(), h.DB, user.UID)
	} else {
		err = store.SetMobileVerified(r.Context(), h.DB, user.UID)
	}
	if err != nil {
		jsonError(w, http.StatusInternalServerError, "internal error")
		return
	}

	h.Broker.Publish(session.Event{UID: user.UID, State: session.ProfileChanged})
	updated, _ := store.GetUser(r.Context(), h.DB, user.UID)
	if updated != nil {
		h.Hub.Publish("users/"+user.UID, updated)
	}

	zap.L().Info("verification completed", zap.String("uid", user.UID), zap.String("channel", channel))
	jsonResponse(w, http.StatusOK, map[string]string{"message": "verified"})
}

// ResendVerification handles POST /api/auth/resend-verification. The channel
// defaults to email.
func (h *AuthHandler) ResendVerification(w http.ResponseWriter, r *http.Request) {
	var req resendRequest
	if err := decodeJSON(r, &req); err != nil {
		jsonError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Channel == "" {
		req.Channel = store.ChannelEmail
	}
	if req.Channel != store.ChannelEmail && req.Channel != store.ChannelMobile {
		jsonError(w, http.StatusBadRequest, "channel must be email or mobile")
		return
	}

	user, err := store.GetUserByEmail(r.Context(), h.DB, strings.ToLower(req.Email))
	if err != nil {
		jsonError(w, http.StatusInternalServerError, "internal error")
		return
	}
	if user == nil {
		jsonError(w, http.StatusNotFound, "No user found with this email.")
		return
	}

	if req.Channel == store.ChannelEmail && user.EmailVerified {
		jsonResponse(w, http.StatusOK, map[string]string{"message": "Your email is already verified."})
		return
	}
	if req.Channel == store.ChannelMobile && user.MobileVerified {
		jsonResponse(w, http.StatusOK, map[string]string{"message": "Your mobile number is already verified."})
		return
	}

	if err := h.issueCode(r, user, req.Channel); err != nil {
		jsonError(w, http.StatusInternalServerError, "failed to send verification code")
		return
	}

	jsonResponse(w, http.StatusOK, map[string]string{"message": "Verification code sent! Please check your inbox."})
}

// ResetPassword handles POST /api/auth/reset-password by emailing a reset
// code.
func (h *AuthHandler) ResetPassword(w http.ResponseWriter, r *http.Request) {
	var req resetRequest
	if err := decodeJSON(r, &req); err != nil {
		jsonError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	user, err := store.GetUserByEmail(r.Context(), h.DB, strings.ToLower(req.Email))
	if err != nil {
		jsonError(w, http.StatusInternalServerError, "internal error")
		return
	}
	if user == nil {
		jsonError(w, http.StatusNotFound, "No user found with this email.")
		return
	}

	if err := h.issueCode(r, user, store.ChannelReset); err != nil {
		jsonError(w, http.StatusInternalServerError, "failed to send reset code")
		return
	}

	jsonResponse(w, http.StatusOK, map[string]string{"message": "Password reset email sent."})
}

// ConfirmPasswordReset handles POST /api/auth/reset-password/confirm.
func (h *AuthHandler) ConfirmPasswordReset(w http.ResponseWriter, r *http.Request) {
	var req resetConfirmRequest
	if err := decodeJSON(r, &req); err != nil {
		jsonError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Email == "" || req.Code == "" || req.NewPassword == "" {
		jsonError(w, http.StatusBadRequest, "email, code and new password required")
		return
	}
	if len(req.NewPassword) < 6 {
		jsonError(w, http.StatusBadRequest, "Password should be at least 6 characters long.")
		return
	}

	user, err := store.GetUserByEmail(r.Context(), h.DB, strings.ToLower(req.Email))
	if err != nil {
		jsonError(w, http.StatusInternalServerError, "internal error")
		return
	}
	if user == nil {
		jsonError(w, http.StatusNotFound, "No user found with this email.")
		return
	}

	if err := h.consumeCode(r, user.UID, store.ChannelReset, req.Code); err != nil {
		writeDomainError(w, err)
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.NewPassword), bcrypt.DefaultCost)
	if err != nil {
		jsonError(w, http.StatusInternalServerError, "failed to hash password")
		return
	}
	if err := store.UpdateUserPassword(r.Context(), h.DB, user.UID, string(hash)); err != nil {
		jsonError(w, http.StatusInternalServerError, "failed to update password")
		return
	}

	h.Broker.Publish(session.Event{UID: user.UID, State: session.ProfileChanged})
	zap.L().Info("password reset", zap.String("uid", user.UID))
	jsonResponse(w, http.StatusOK, map[string]string{"message": "password updated"})
}

// Me handles GET /api/auth/me through the profile aggregator.
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	claims := GetClaims(r.Context())
	if claims == nil {
		jsonError(w, http.StatusUnauthorized, "not authenticated")
		return
	}

	user, err := h.Profiles.Profile(r.Context(), claims.UID)
	if err != nil {
		jsonError(w, http.StatusInternalServerError, "internal error")
		return
	}
	if user == nil {
		jsonError(w, http.StatusNotFound, "The requested record was not found.")
		return
	}

	jsonResponse(w, http.StatusOK, user)
}

// issueCode generates a one-time code for the channel, stores its hash and
// delivers the plain code to the user.
func (h *AuthHandler) issueCode(r *http.Request, user *model.User, channel string) error {
	code, hash, err := auth.NewCode()
	if err != nil {
		return err
	}

	expiresAt := time.Now().Add(auth.CodeTTL)
	if err := store.SaveVerificationCode(r.Context(), h.DB, user.UID, channel, hash, expiresAt); err != nil {
		return err
	}

	switch channel {
	case store.ChannelMobile:
		body := fmt.Sprintf("Your Care Connect verification code is %s.", code)
		return h.Sender.SendSMS(r.Context(), user.Mobile, body)
	case store.ChannelReset:
		body := fmt.Sprintf("Your Care Connect password reset code is %s. It expires in %d minutes.",
			code, int(auth.CodeTTL.Minutes()))
		return h.Sender.SendEmail(r.Context(), user.Email, "Reset your Care Connect password", body)
	default:
		body := fmt.Sprintf("Your Care Connect verification code is %s. It expires in %d minutes.",
			code, int(auth.CodeTTL.Minutes()))
		return h.Sender.SendEmail(r.Context(), user.Email, "Verify your Care Connect email", body)
	}
}

// consumeCode validates a submitted code against the stored hash and deletes
// it on success.
func (h *AuthHandler) consumeCode(r *http.Request, uid, channel, code string) error {
	hash, err := store.GetVerificationCode(r.Context(), h.DB, uid, channel)
	if err != nil {
		return err
	}
	if hash == "" || !auth.CheckCode(hash, code) {
		return store.ErrInvalidCode
	}
	return store.DeleteVerificationCode(r.Context(), h.DB, uid, channel)
}
