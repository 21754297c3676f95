package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseReceiptStatus(t *testing.T) {
	for _, valid := range []string{"completed", "pending", "refunded", "failed"} {
		st, ok := ParseReceiptStatus(valid)
		assert.True(t, ok, valid)
		assert.Equal(t, ReceiptStatus(valid), st)
	}

	_, ok := ParseReceiptStatus("shipped")
	assert.False(t, ok)

	_, ok = ParseReceiptStatus("")
	assert.False(t, ok)
}
