package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

// TestMediaBinding_Loopable verifies that only native video participates in
// the loop-until-alert-expires policy; images and embedded platform players
// have no end signal to loop on.
func TestMediaBinding_Loopable(t *testing.T) {
	cases := []struct {
		kind MediaKind
		want bool
	}{
		{MediaKindVideo, true},
		{MediaKindImage, false},
		{MediaKindYouTube, false},
		{MediaKindTikTok, false},
		{MediaKindInstagram, false},
		{MediaKindUnknown, false},
	}

	for _, tc := range cases {
		t.Run(string(tc.kind), func(t *testing.T) {
			m := MediaBinding{Kind: tc.kind}
			assert.Equal(t, tc.want, m.Loopable())
		})
	}
}
