package roster

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const _canvasFixture = `Student,ID,SIS User ID,Section,Training Affirmation (Required)  (228040),BLUE TAG  (228139),GREEN TAG (293966),ORANGE TAG (294239)
    Points Possible,,,,100,1,10,10
"Smith, Alice",1001,123456,LAB-01,100,1,8,
"Jones, Bob",1002,654321,LAB-01,100,,,"9"
"Student, Test",1003,,LAB-01,,,,
"Lee, Cara",1004,111111,LAB-02,,1,,
`

func TestParseCanvasCSV(t *testing.T) {
	rows, err := ParseCanvasCSV(strings.NewReader(_canvasFixture))
	require.NoError(t, err)
	require.Len(t, rows, 3, "points row and test student must be dropped")

	alice := rows[0]
	assert.Equal(t, "123456", alice.StudentID)
	assert.Equal(t, "Alice", alice.FirstName)
	assert.Equal(t, "Smith", alice.LastName)
	assert.True(t, alice.WhiteTag)
	assert.True(t, alice.BlueTag)
	assert.True(t, alice.GreenTag)
	assert.False(t, alice.OrangeTag)

	bob := rows[1]
	assert.Equal(t, "654321", bob.StudentID)
	assert.True(t, bob.WhiteTag)
	assert.False(t, bob.BlueTag)
	assert.False(t, bob.GreenTag)
	assert.True(t, bob.OrangeTag)

	cara := rows[2]
	assert.Equal(t, "111111", cara.StudentID)
	assert.False(t, cara.WhiteTag, "affirmation must be exactly 100")
	assert.True(t, cara.BlueTag)
}

func TestParseCanvasCSV_Empty(t *testing.T) {
	rows, err := ParseCanvasCSV(strings.NewReader(""))
	require.NoError(t, err)
	assert.Empty(t, rows)
}

func TestParseCanvasCSV_HeaderOnly(t *testing.T) {
	rows, err := ParseCanvasCSV(strings.NewReader("Student,SIS User ID\n"))
	require.NoError(t, err)
	assert.Empty(t, rows)
}

func TestSplitName(t *testing.T) {
	tests := []struct {
		full      string
		wantLast  string
		wantFirst string
	}{
		{"Smith, Alice", "Smith", "Alice"},
		{"Cher", "Cher", ""},
		{" Jones ,  Bob ", "Jones", "Bob"},
		{"", "", ""},
	}

	for _, tt := range tests {
		last, first := splitName(tt.full)
		assert.Equal(t, tt.wantLast, last)
		assert.Equal(t, tt.wantFirst, first)
	}
}
