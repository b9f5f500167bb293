package store

import (
	"errors"

	"go.mongodb.org/mongo-driver/mongo"
)

const duplicateKeyMessage = " E11000 "

var duplicateKeyCodes = []int{11000, 11001, 12582}

// IsDuplicateKeyError returns true when a write was rejected by a unique index
func IsDuplicateKeyError(err error) bool {
	var serverErr mongo.ServerError
	if !errors.As(err, &serverErr) {
		return false
	}
	for _, code := range duplicateKeyCodes {
		if serverErr.HasErrorCode(code) {
			return true
		}
	}
	return serverErr.HasErrorCodeWithMessage(16460, duplicateKeyMessage)
}

// IsNotFound returns true when a single document lookup matched nothing
func IsNotFound(err error) bool {
	return errors.Is(err, mongo.ErrNoDocuments)
}
