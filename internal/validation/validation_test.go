package validation

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidatePassword(t *testing.T) {
	assert.NoError(t, ValidatePassword("fairway22green"))
	assert.Error(t, ValidatePassword("short1"))
	assert.Error(t, ValidatePassword("onlyletters"))
	assert.Error(t, ValidatePassword("1234567890"))
	assert.Error(t, ValidatePassword("mypassword1"))
	assert.Error(t, ValidatePassword("bigbirdie99"))
	assert.Error(t, ValidatePassword(string(bytes.Repeat([]byte("a1"), 40))))
}

func TestValidateEmail(t *testing.T) {
	assert.NoError(t, ValidateEmail("golfer@example.com"))
	assert.Error(t, ValidateEmail(""))
	assert.Error(t, ValidateEmail("not-an-email"))
}

func TestValidateHandicap(t *testing.T) {
	assert.NoError(t, ValidateHandicap(0))
	assert.NoError(t, ValidateHandicap(-4.2))
	assert.NoError(t, ValidateHandicap(54))
	assert.Error(t, ValidateHandicap(54.1))
	assert.Error(t, ValidateHandicap(-11))
}

func TestValidateHoleScore(t *testing.T) {
	two := 2
	six := 6
	assert.NoError(t, ValidateHoleScore(HoleScoreInput{Score: 4, Putts: &two}))
	assert.NoError(t, ValidateHoleScore(HoleScoreInput{Score: 1}))

	err := ValidateHoleScore(HoleScoreInput{Score: 0})
	var errs Errors
	require.ErrorAs(t, err, &errs)
	assert.Contains(t, errs, "score")

	err = ValidateHoleScore(HoleScoreInput{Score: 4, Putts: &six, Penalties: 4})
	require.ErrorAs(t, err, &errs)
	assert.Contains(t, errs, "putts")
	assert.Contains(t, errs, "penalties")
}

func TestValidateChatMessageCountsCharacters(t *testing.T) {
	assert.NoError(t, ValidateChatMessage(strings.Repeat("é", 1500)))
	assert.NoError(t, ValidateChatMessage(strings.Repeat("⛳", 2000)))
	assert.Error(t, ValidateChatMessage(strings.Repeat("⛳", 2001)))
	assert.Error(t, ValidateChatMessage("   "))

	assert.NoError(t, ValidateName(strings.Repeat("ø", 100)))
	assert.Error(t, ValidateName(strings.Repeat("ø", 101)))
}

func TestErrorsMessageIsSorted(t *testing.T) {
	errs := Errors{}
	errs.Add("score", "bad")
	errs.Add("putts", "worse")
	errs.Add("score", "ignored")
	assert.Equal(t, "validation failed: putts: worse; score: bad", errs.Error())
	assert.Nil(t, Errors{}.Err())
}

func TestValidateUpload(t *testing.T) {
	png := append([]byte("\x89PNG\r\n\x1a\n"), make([]byte, 64)...)

	mime, err := ValidateUpload(bytes.NewReader(png), "card.png", int64(len(png)), ScorecardConstraints)
	require.NoError(t, err)
	assert.Equal(t, "image/png", mime)

	_, err = ValidateUpload(bytes.NewReader(png), "card.gif", int64(len(png)), ScorecardConstraints)
	assert.Error(t, err)

	_, err = ValidateUpload(bytes.NewReader([]byte("plain text")), "card.png", 10, ScorecardConstraints)
	assert.Error(t, err)

	_, err = ValidateUpload(bytes.NewReader(png), "card.png", 11<<20, ScorecardConstraints)
	assert.Error(t, err)
}

func TestValidateCoordinates(t *testing.T) {
	assert.NoError(t, ValidateCoordinates(36.56, -121.95))
	assert.Error(t, ValidateCoordinates(100, 0))
}
