package handler

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/pacomprar/auction-api/internal/model"
)

func strp(s string) *string { return &s }

func TestApplyProfile(t *testing.T) {
	base := model.User{
		Email:        "old@example.com",
		BirthDate:    time.Date(1990, 1, 1, 0, 0, 0, 0, time.UTC),
		Locality:     "Centro",
		Municipality: "Sevilla",
	}

	t.Run("nil fields keep current values", func(t *testing.T) {
		u := base
		require.NoError(t, applyProfile(&u, updateProfileReq{}))
		require.Equal(t, base, u)
	})

	t.Run("email normalized", func(t *testing.T) {
		u := base
		require.NoError(t, applyProfile(&u, updateProfileReq{Email: strp("  New@Example.COM ")}))
		require.Equal(t, "new@example.com", u.Email)
	})

	t.Run("empty email rejected", func(t *testing.T) {
		u := base
		require.Error(t, applyProfile(&u, updateProfileReq{Email: strp("   ")}))
	})

	t.Run("birth date parsed", func(t *testing.T) {
		u := base
		require.NoError(t, applyProfile(&u, updateProfileReq{BirthDate: strp("1985-06-15")}))
		require.Equal(t, time.Date(1985, 6, 15, 0, 0, 0, 0, time.UTC), u.BirthDate)
	})

	t.Run("bad birth date rejected", func(t *testing.T) {
		u := base
		require.Error(t, applyProfile(&u, updateProfileReq{BirthDate: strp("15/06/1985")}))
	})

	t.Run("locality cleared with empty string", func(t *testing.T) {
		u := base
		require.NoError(t, applyProfile(&u, updateProfileReq{Locality: strp("")}))
		require.Empty(t, u.Locality)
		require.Equal(t, "Sevilla", u.Municipality)
	})
}
