package service

import "errors"

// ErrSomeProductsNotFound signals that the fetched product count did not
// match the requested id count. It does not identify which id is invalid.
var ErrSomeProductsNotFound = errors.New("some product was not found")
