package config

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestIntOr(t *testing.T) {
	cases := []struct {
		name string
		env  string
		want int
	}{
		{"unset", "", 25},
		{"override", "100", 100},
		{"garbage", "lots", 25},
		{"zero", "0", 25},
		{"negative", "-3", 25},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			t.Setenv("DB_MAX_CONNS", tc.env)
			require.Equal(t, tc.want, intOr("DB_MAX_CONNS", 25))
		})
	}
}
