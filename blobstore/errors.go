package blobstore

import (
	"errors"
	"os"
)

func isNotFound(err error) bool {
	return errors.Is(err, ErrNotFound) || os.IsNotExist(err)
}
