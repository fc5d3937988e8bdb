package security

import (
	"testing"
	"time"

	"github.com/pquerna/otp/totp"
)

func TestPasswordHashRoundTrip(t *testing.T) {
	hash, errHash := HashPassword("s3cret-pass")
	if errHash != nil {
		t.Fatalf("hash: %v", errHash)
	}
	if hash == "s3cret-pass" {
		t.Fatalf("password stored in plaintext")
	}
	if !CheckPassword(hash, "s3cret-pass") {
		t.Fatalf("correct password rejected")
	}
	if CheckPassword(hash, "wrong") {
		t.Fatalf("wrong password accepted")
	}
}

func TestTokenKindIsEnforced(t *testing.T) {
	token, errToken := IssueToken("secret", 5, "Mira", "Admin", KindAccessToken, time.Hour)
	if errToken != nil {
		t.Fatalf("issue: %v", errToken)
	}

	claims, errVerify := VerifyToken("secret", token, KindAccessToken)
	if errVerify != nil {
		t.Fatalf("verify: %v", errVerify)
	}
	if claims.ID != 5 || claims.Role != "Admin" {
		t.Fatalf("claims lost: %+v", claims)
	}

	if _, errKind := VerifyToken("secret", token, KindResetToken); errKind == nil {
		t.Fatalf("access token accepted as reset token")
	}
	if _, errSecret := VerifyToken("other-secret", token, KindAccessToken); errSecret == nil {
		t.Fatalf("token verified under the wrong secret")
	}
}

func TestExpiredTokenIsRejected(t *testing.T) {
	token, errToken := IssueToken("secret", 5, "Mira", "Admin", KindAccessToken, -time.Minute)
	if errToken != nil {
		t.Fatalf("issue: %v", errToken)
	}
	if _, errVerify := VerifyToken("secret", token, KindAccessToken); errVerify != ErrExpiredToken {
		t.Fatalf("expected ErrExpiredToken, got %v", errVerify)
	}
}

func TestGenerateRandomStringLength(t *testing.T) {
	first, errFirst := GenerateRandomString(12)
	if errFirst != nil {
		t.Fatalf("generate: %v", errFirst)
	}
	second, errSecond := GenerateRandomString(12)
	if errSecond != nil {
		t.Fatalf("generate: %v", errSecond)
	}
	if len(first) != 12 || len(second) != 12 {
		t.Fatalf("unexpected lengths: %d/%d", len(first), len(second))
	}
	if first == second {
		t.Fatalf("generated strings should not repeat")
	}
}

func TestTOTPSecretValidatesCurrentCode(t *testing.T) {
	secret, url, errSecret := NewTOTPSecret("mira@example.com")
	if errSecret != nil {
		t.Fatalf("new secret: %v", errSecret)
	}
	if secret == "" || url == "" {
		t.Fatalf("missing secret or provisioning url")
	}

	code, errCode := totp.GenerateCode(secret, time.Now())
	if errCode != nil {
		t.Fatalf("generate code: %v", errCode)
	}
	if !ValidateTOTP(code, secret) {
		t.Fatalf("current code rejected")
	}
	if ValidateTOTP("000000", secret) {
		t.Fatalf("bogus code accepted")
	}
}
