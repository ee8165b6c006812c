package textutil

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNormalizeName(t *testing.T) {
	testCases := []struct {
		name     string
		expected string
	}{
		{name: "Python 3", expected: "python3"},
		{name: "  python3\n", expected: "python3"},
		{name: "C++", expected: "c++"},
		{name: "GNU  C\t11", expected: "gnuc11"},
		{name: "", expected: ""},
	}

	for _, test := range testCases {
		require.Equal(t, test.expected, NormalizeName(test.name))
	}
}
