package auth

import "strings"

// ExtractToken pulls the bare token out of an Authorization header
// value. The literal "Bearer" prefix is accepted with or without the
// trailing space (exact casing only) and whitespace is trimmed from
// the edges both before and after stripping.
func ExtractToken(header string) string {
	token := strings.TrimSpace(header)
	if strings.HasPrefix(token, "Bearer ") {
		token = token[7:]
	} else if strings.HasPrefix(token, "Bearer") {
		token = token[6:]
	}
	return strings.TrimSpace(token)
}

// MaskToken hides the interior of a token for logging. Tokens longer
// than four characters keep their first and last two characters;
// shorter tokens are fully masked.
func MaskToken(token string) string {
	if len(token) > 4 {
		return token[:2] + strings.Repeat("*", len(token)-4) + token[len(token)-2:]
	}
	return strings.Repeat("*", len(token))
}
