package services

import (
	"testing"

	"github.com/parley-im/parley/pkg/internal/models"
	"github.com/spf13/viper"
)

func TestMemberTokenRoundTrip(t *testing.T) {
	viper.Set("security.secret", "unit-test-secret")
	viper.Set("security.token_duration", 3600)

	member := models.RoomMember{
		RoomID:   42,
		MemberID: "guest_abc",
		Name:     "Carol",
	}

	raw, err := EncodeMemberToken(member)
	if err != nil {
		t.Fatalf("unable to encode token: %v", err)
	}

	claims, err := DecodeMemberToken(raw)
	if err != nil {
		t.Fatalf("unable to decode token: %v", err)
	}
	if claims.RoomID != 42 || claims.MemberID != "guest_abc" || claims.MemberName != "Carol" {
		t.Fatalf("claims do not round-trip: %+v", claims)
	}
}

func TestMemberTokenRejectsTampering(t *testing.T) {
	viper.Set("security.secret", "unit-test-secret")
	viper.Set("security.token_duration", 3600)

	raw, err := EncodeMemberToken(models.RoomMember{RoomID: 1, MemberID: "guest_x"})
	if err != nil {
		t.Fatal(err)
	}

	viper.Set("security.secret", "rotated")
	if _, err := DecodeMemberToken(raw); err == nil {
		t.Fatalf("expected token signed with old secret to fail")
	}
}
