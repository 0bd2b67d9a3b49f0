package repository

import (
	"errors"
	"fmt"
	"testing"

	"github.com/go-sql-driver/mysql"
	"github.com/stretchr/testify/assert"
)

func TestIsDuplicateKey(t *testing.T) {
	dup := &mysql.MySQLError{Number: 1062, Message: "Duplicate entry"}
	assert.True(t, isDuplicateKey(dup))
	assert.True(t, isDuplicateKey(fmt.Errorf("insert: %w", dup)))

	assert.False(t, isDuplicateKey(nil))
	assert.False(t, isDuplicateKey(errors.New("duplicate entry")))
	assert.False(t, isDuplicateKey(&mysql.MySQLError{Number: 1213}))
}

func TestPlaceholders(t *testing.T) {
	assert.Equal(t, "?", placeholders(1))
	assert.Equal(t, "?,?,?", placeholders(3))
	assert.Equal(t, "", placeholders(0))
}
