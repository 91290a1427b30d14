package jwt

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Claims incluye los claims estándar JWT más los campos propios del sistema
// hospitalario, para que la autorización aguas abajo sea por claims sin
// consultar la DB.
type Claims struct {
	jwt.RegisteredClaims
	UserID                      string `json:"user_id"`
	Username                    string `json:"username"`
	Role                        string `json:"role"` // "Doctor" | "Nurse" | ...
	RoleCode                    int    `json:"role_code"`
	Department                  string `json:"department"`
	IsMedicalStaff              bool   `json:"is_medical_staff"`
	CanAccessControlledProducts bool   `json:"can_access_controlled_products"`
}

// TokenInput datos del usuario que viajan en el token.
type TokenInput struct {
	UserID                      string
	Username                    string
	Role                        string
	RoleCode                    int
	Department                  string
	IsMedicalStaff              bool
	CanAccessControlledProducts bool
}

// Generate genera un token JWT firmado (HS256) y devuelve el token con su
// expiración absoluta.
func Generate(secret string, in TokenInput, issuer string, expMinutes int) (string, time.Time, error) {
	if secret == "" {
		return "", time.Time{}, fmt.Errorf("jwt: secret vacío")
	}
	now := time.Now()
	expiresAt := now.Add(time.Duration(expMinutes) * time.Minute)
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    issuer,
			Subject:   in.UserID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
		UserID:                      in.UserID,
		Username:                    in.Username,
		Role:                        in.Role,
		RoleCode:                    in.RoleCode,
		Department:                  in.Department,
		IsMedicalStaff:              in.IsMedicalStaff,
		CanAccessControlledProducts: in.CanAccessControlledProducts,
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(secret))
	if err != nil {
		return "", time.Time{}, err
	}
	return signed, expiresAt, nil
}

// Parse valida el token y devuelve sus claims.
// Retorna error si el token es inválido, expirado o tiene firma incorrecta.
func Parse(secret, tokenString string) (*Claims, error) {
	if secret == "" {
		return nil, fmt.Errorf("jwt: secret vacío")
	}
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("método de firma inesperado: %v", t.Header["alg"])
		}
		return []byte(secret), nil
	})
	if err != nil {
		return nil, err
	}
	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, fmt.Errorf("claims inválidos")
	}
	return claims, nil
}
