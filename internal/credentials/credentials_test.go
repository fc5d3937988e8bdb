package credentials

import (
	"context"
	"testing"
	"time"

	"github.com/communityhub-io/communityhub/internal/apperr"
	"github.com/communityhub-io/communityhub/internal/models"
	"github.com/communityhub-io/communityhub/internal/ratelimit"
	"github.com/communityhub-io/communityhub/internal/roles"
	"github.com/communityhub-io/communityhub/internal/security"
	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
)

type denyAll struct{}

func (denyAll) Allow(context.Context, string) bool { return false }

func testWorkflow(t *testing.T) Workflow {
	t.Helper()
	conn, errOpen := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if errOpen != nil {
		t.Fatalf("open sqlite: %v", errOpen)
	}
	if errMigrate := conn.AutoMigrate(&models.PersonalAccount{}); errMigrate != nil {
		t.Fatalf("migrate: %v", errMigrate)
	}
	return Workflow{
		DB: conn,
		Tokens: TokenConfig{
			Secret:    "test-secret",
			AccessTTL: time.Hour,
			ResetTTL:  15 * time.Minute,
		},
		Limiter: ratelimit.Unlimited{},
	}
}

func seedAccount(t *testing.T, w Workflow, status, password string) models.PersonalAccount {
	t.Helper()
	hash, errHash := security.HashPassword(password)
	if errHash != nil {
		t.Fatalf("hash: %v", errHash)
	}
	account := models.PersonalAccount{
		Name:     "Ravi",
		Username: "ravi",
		Email:    "ravi@example.com",
		Phone:    "9000000001",
	}
	account.Password = hash
	account.Status = status
	if errCreate := w.DB.Create(&account).Error; errCreate != nil {
		t.Fatalf("create account: %v", errCreate)
	}
	return account
}

func TestLoginIssuesTokenAndStampsLastSync(t *testing.T) {
	w := testWorkflow(t)
	seedAccount(t, w, models.StatusActive, "pass-1234")

	token, account, errLogin := Login[models.PersonalAccount](
		context.Background(), w, "personal account", string(roles.PersonalAccount), "ravi@example.com", "pass-1234")
	if errLogin != nil {
		t.Fatalf("login: %v", errLogin)
	}
	if token == "" {
		t.Fatalf("expected access token")
	}
	if account.LastSync == nil {
		t.Fatalf("login did not stamp lastSync")
	}

	claims, errVerify := security.VerifyToken(w.Tokens.Secret, token, security.KindAccessToken)
	if errVerify != nil {
		t.Fatalf("verify token: %v", errVerify)
	}
	if claims.Role != string(roles.PersonalAccount) {
		t.Fatalf("expected role %s in token, got %s", roles.PersonalAccount, claims.Role)
	}
}

func TestLoginByPhone(t *testing.T) {
	w := testWorkflow(t)
	seedAccount(t, w, models.StatusActive, "pass-1234")

	if _, _, errLogin := Login[models.PersonalAccount](
		context.Background(), w, "personal account", string(roles.PersonalAccount), "9000000001", "pass-1234"); errLogin != nil {
		t.Fatalf("login by phone: %v", errLogin)
	}
}

func TestLoginBlockedRefusedBeforePasswordCheck(t *testing.T) {
	w := testWorkflow(t)
	account := seedAccount(t, w, models.StatusBlocked, "pass-1234")

	_, _, errLogin := Login[models.PersonalAccount](
		context.Background(), w, "personal account", string(roles.PersonalAccount), "ravi@example.com", "wrong-password")
	if !apperr.Is(errLogin, apperr.CodeUnauthorized) {
		t.Fatalf("expected Unauthorized for blocked account, got %v", errLogin)
	}
	if errLogin.Error() != "account blocked! contact customer care" {
		t.Fatalf("unexpected message: %s", errLogin.Error())
	}

	var reloaded models.PersonalAccount
	if errFind := w.DB.First(&reloaded, account.ID).Error; errFind != nil {
		t.Fatalf("reload: %v", errFind)
	}
	if reloaded.LastSync != nil {
		t.Fatalf("blocked login must not stamp lastSync")
	}
}

func TestLoginInactiveFlipsBackToActive(t *testing.T) {
	w := testWorkflow(t)
	seedAccount(t, w, models.StatusInactive, "pass-1234")

	_, account, errLogin := Login[models.PersonalAccount](
		context.Background(), w, "personal account", string(roles.PersonalAccount), "ravi@example.com", "pass-1234")
	if errLogin != nil {
		t.Fatalf("login: %v", errLogin)
	}
	if account.Status != models.StatusActive {
		t.Fatalf("expected Active after inactive login, got %s", account.Status)
	}
}

func TestLoginWrongPasswordAndUnknownEmailLookAlike(t *testing.T) {
	w := testWorkflow(t)
	seedAccount(t, w, models.StatusActive, "pass-1234")
	ctx := context.Background()

	_, _, errWrong := Login[models.PersonalAccount](
		ctx, w, "personal account", string(roles.PersonalAccount), "ravi@example.com", "nope")
	_, _, errUnknown := Login[models.PersonalAccount](
		ctx, w, "personal account", string(roles.PersonalAccount), "nobody@example.com", "nope")
	if errWrong == nil || errUnknown == nil {
		t.Fatalf("expected both logins to fail")
	}
	if errWrong.Error() != errUnknown.Error() {
		t.Fatalf("wrong-password and unknown-email must be indistinguishable: %q vs %q", errWrong.Error(), errUnknown.Error())
	}
}

func TestForgotPasswordMessageIsIdenticalForAnyEmail(t *testing.T) {
	w := testWorkflow(t)
	seedAccount(t, w, models.StatusActive, "pass-1234")
	ctx := context.Background()

	matched, errMatched := ForgotPassword[models.PersonalAccount](
		ctx, w, "personal account", string(roles.PersonalAccount), "ravi@example.com")
	if errMatched != nil {
		t.Fatalf("forgot password: %v", errMatched)
	}
	unmatched, errUnmatched := ForgotPassword[models.PersonalAccount](
		ctx, w, "personal account", string(roles.PersonalAccount), "nobody@example.com")
	if errUnmatched != nil {
		t.Fatalf("forgot password: %v", errUnmatched)
	}
	if matched != unmatched || matched != ForgotPasswordMessage {
		t.Fatalf("messages must be identical: %q vs %q", matched, unmatched)
	}
}

func TestForgotPasswordRateLimitedDoesNoWork(t *testing.T) {
	w := testWorkflow(t)
	account := seedAccount(t, w, models.StatusActive, "pass-1234")
	w.Limiter = denyAll{}

	message, errForgot := ForgotPassword[models.PersonalAccount](
		context.Background(), w, "personal account", string(roles.PersonalAccount), "ravi@example.com")
	if errForgot != nil {
		t.Fatalf("forgot password: %v", errForgot)
	}
	if message != ForgotPasswordMessage {
		t.Fatalf("limited attempt must return the standard message, got %q", message)
	}

	var reloaded models.PersonalAccount
	if errFind := w.DB.First(&reloaded, account.ID).Error; errFind != nil {
		t.Fatalf("reload: %v", errFind)
	}
	if reloaded.ResetPasswordAccess {
		t.Fatalf("limited attempt must not open a reset window")
	}
}

func TestResetPasswordRoundTrip(t *testing.T) {
	w := testWorkflow(t)
	account := seedAccount(t, w, models.StatusActive, "pass-1234")
	ctx := context.Background()

	if _, errForgot := ForgotPassword[models.PersonalAccount](
		ctx, w, "personal account", string(roles.PersonalAccount), "ravi@example.com"); errForgot != nil {
		t.Fatalf("forgot password: %v", errForgot)
	}

	token, errToken := security.IssueToken(
		w.Tokens.Secret, account.ID, account.Name, string(roles.PersonalAccount), security.KindResetToken, w.Tokens.ResetTTL)
	if errToken != nil {
		t.Fatalf("issue reset token: %v", errToken)
	}

	// Reusing the old password is refused.
	_, errReuse := ResetPassword[models.PersonalAccount](ctx, w, "personal account", token, "pass-1234")
	if !apperr.Is(errReuse, apperr.CodeConflict) {
		t.Fatalf("expected Conflict on password reuse, got %v", errReuse)
	}

	if _, errReset := ResetPassword[models.PersonalAccount](ctx, w, "personal account", token, "fresh-pass"); errReset != nil {
		t.Fatalf("reset password: %v", errReset)
	}

	var reloaded models.PersonalAccount
	if errFind := w.DB.First(&reloaded, account.ID).Error; errFind != nil {
		t.Fatalf("reload: %v", errFind)
	}
	if reloaded.ResetPasswordAccess {
		t.Fatalf("reset must close the reset window")
	}
	if !security.CheckPassword(reloaded.Password, "fresh-pass") {
		t.Fatalf("new password not stored")
	}

	// The window is closed, so the same token no longer works.
	_, errClosed := ResetPassword[models.PersonalAccount](ctx, w, "personal account", token, "another-pass")
	if !apperr.Is(errClosed, apperr.CodeUnauthorized) {
		t.Fatalf("expected Unauthorized after window closed, got %v", errClosed)
	}
}

func TestResetPasswordRejectsAccessToken(t *testing.T) {
	w := testWorkflow(t)
	account := seedAccount(t, w, models.StatusActive, "pass-1234")

	token, errToken := security.IssueToken(
		w.Tokens.Secret, account.ID, account.Name, string(roles.PersonalAccount), security.KindAccessToken, w.Tokens.AccessTTL)
	if errToken != nil {
		t.Fatalf("issue token: %v", errToken)
	}
	_, errReset := ResetPassword[models.PersonalAccount](context.Background(), w, "personal account", token, "fresh-pass")
	if !apperr.Is(errReset, apperr.CodeUnauthorized) {
		t.Fatalf("expected Unauthorized for an access token, got %v", errReset)
	}
}

func TestChangePasswordClearsAutoGeneratedFlag(t *testing.T) {
	w := testWorkflow(t)
	account := seedAccount(t, w, models.StatusActive, "pass-1234")
	if errFlag := w.DB.Model(&account).Update("auto_generated_passwd", true).Error; errFlag != nil {
		t.Fatalf("flag: %v", errFlag)
	}
	ctx := context.Background()

	_, errWrong := ChangePassword[models.PersonalAccount](ctx, w, "personal account", account.ID, "wrong", "fresh-pass")
	if !apperr.Is(errWrong, apperr.CodeUnauthorized) {
		t.Fatalf("expected Unauthorized for wrong current password, got %v", errWrong)
	}

	if _, errChange := ChangePassword[models.PersonalAccount](ctx, w, "personal account", account.ID, "pass-1234", "fresh-pass"); errChange != nil {
		t.Fatalf("change password: %v", errChange)
	}
	var reloaded models.PersonalAccount
	if errFind := w.DB.First(&reloaded, account.ID).Error; errFind != nil {
		t.Fatalf("reload: %v", errFind)
	}
	if reloaded.AutoGeneratedPasswd {
		t.Fatalf("change must clear the auto-generated flag")
	}
	if !security.CheckPassword(reloaded.Password, "fresh-pass") {
		t.Fatalf("new password not stored")
	}
}

func TestCheckStatusStampsLastUsedAndFlipsInactive(t *testing.T) {
	w := testWorkflow(t)
	account := seedAccount(t, w, models.StatusInactive, "pass-1234")

	checked, message, errCheck := CheckStatus[models.PersonalAccount](
		context.Background(), w, "personal account", account.ID, []string{models.StatusActive})
	if errCheck != nil {
		t.Fatalf("check status: %v", errCheck)
	}
	if checked.Status != models.StatusActive {
		t.Fatalf("expected Active, got %s", checked.Status)
	}
	if checked.LastUsed == nil {
		t.Fatalf("check status did not stamp lastUsed")
	}
	if message == "" {
		t.Fatalf("expected a status message")
	}
}

func TestCheckStatusBlockedIsUnauthorized(t *testing.T) {
	w := testWorkflow(t)
	account := seedAccount(t, w, models.StatusBlocked, "pass-1234")

	_, _, errCheck := CheckStatus[models.PersonalAccount](
		context.Background(), w, "personal account", account.ID, []string{models.StatusActive})
	if !apperr.Is(errCheck, apperr.CodeUnauthorized) {
		t.Fatalf("expected Unauthorized for blocked account, got %v", errCheck)
	}
}
