package db

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/mongo"

	"github.com/edvin/mongoadmin/internal/core"
)

const (
	codeUnauthorized         = 13
	codeAuthenticationFailed = 18
	codeAtlasUnauthorized    = 8000
)

// translate classifies a driver error for the service layer.
func translate(err error) error {
	if err == nil {
		return nil
	}
	switch {
	case errors.Is(err, mongo.ErrNoDocuments):
		return &core.Error{Kind: core.KindNotFound, Message: "not found", Err: core.ErrNotFound}
	case mongo.IsDuplicateKeyError(err):
		return &core.Error{Kind: core.KindConflict, Message: "already exists", Err: fmt.Errorf("%w: %v", core.ErrDuplicate, err)}
	case mongo.IsNetworkError(err), mongo.IsTimeout(err),
		errors.Is(err, mongo.ErrClientDisconnected), errors.Is(err, context.DeadlineExceeded):
		return core.StoreFailure(err, true)
	}

	var se mongo.ServerError
	if errors.As(err, &se) {
		switch {
		case se.HasErrorCode(codeUnauthorized), se.HasErrorCode(codeAtlasUnauthorized):
			return &core.Error{Kind: core.KindForbidden, Message: "the database user is not authorized for this operation", Err: err}
		case se.HasErrorCode(codeAuthenticationFailed):
			return core.StoreFailure(err, true)
		}
	}
	return core.StoreFailure(err, false)
}
