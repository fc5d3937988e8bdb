package security

import "github.com/pquerna/otp/totp"

// totpIssuer is the issuer label shown in authenticator apps.
const totpIssuer = "CommunityHub"

// NewTOTPSecret provisions a TOTP secret for an admin account and returns
// the secret plus the otpauth:// provisioning URL.
func NewTOTPSecret(accountName string) (secret string, url string, err error) {
	key, err := totp.Generate(totp.GenerateOpts{
		Issuer:      totpIssuer,
		AccountName: accountName,
	})
	if err != nil {
		return "", "", err
	}
	return key.Secret(), key.URL(), nil
}

// ValidateTOTP checks a one-time code against a stored secret.
func ValidateTOTP(code, secret string) bool {
	return totp.Validate(code, secret)
}
