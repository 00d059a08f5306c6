package wizard

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParsePageName(t *testing.T) {
	tests := []struct {
		input    string
		expected PageName
	}{
		{"Welcome", Welcome},
		{"IntroductionPage", Introduction},
		{"ComponentSelectionPageCallback", ComponentSelection},
		{"  licenseagreement ", LicenseAgreement},
		{"FinishedPage", Finished},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParsePageName(tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, got)
		})
	}
}

func TestParsePageName_Unknown(t *testing.T) {
	_, err := ParsePageName("PerformInstallation")
	assert.ErrorIs(t, err, ErrUnknownPage)
}

func TestPages(t *testing.T) {
	pages := Pages()
	require.Len(t, pages, 9)
	assert.Equal(t, Welcome, pages[0])
	assert.Equal(t, Finished, pages[len(pages)-1])

	for _, p := range pages {
		assert.True(t, p.Valid())
		back, err := ParsePageName(p.String())
		require.NoError(t, err)
		assert.Equal(t, p, back)
	}

	assert.False(t, PageName(42).Valid())
	assert.Equal(t, "PageName(42)", PageName(42).String())
}
