package repository

import "errors"

var ErrProductNotFound = errors.New("product not found")
var ErrOrderNotFound = errors.New("order not found")
