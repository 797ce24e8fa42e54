package services

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/parley-im/parley/pkg/internal/models"
	"github.com/spf13/viper"
)

// MemberClaims is the room-scoped session handed out on create/join.
// There is no ambient "who am I" state; every request carries this.
type MemberClaims struct {
	RoomID     uint   `json:"rid"`
	MemberID   string `json:"mid"`
	MemberName string `json:"mnm"`

	jwt.RegisteredClaims
}

func EncodeMemberToken(member models.RoomMember) (string, error) {
	duration := time.Second * time.Duration(viper.GetInt64("security.token_duration"))
	claims := MemberClaims{
		RoomID:     member.RoomID,
		MemberID:   member.MemberID,
		MemberName: member.Name,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    "parley",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(duration)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}

	tk := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return tk.SignedString([]byte(viper.GetString("security.secret")))
}

func DecodeMemberToken(raw string) (MemberClaims, error) {
	var claims MemberClaims
	tk, err := jwt.ParseWithClaims(raw, &claims, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(viper.GetString("security.secret")), nil
	})
	if err != nil {
		return claims, err
	} else if !tk.Valid {
		return claims, fmt.Errorf("invalid token")
	}
	return claims, nil
}
