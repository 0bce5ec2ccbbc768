package kvstore

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCartKey(t *testing.T) {
	assert.Equal(t, "cart_42", CartKey("42"))
	assert.NotEqual(t, CartKey("7"), CartKey("42"))
}
