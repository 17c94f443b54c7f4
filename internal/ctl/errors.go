package ctl

import "github.com/Battleboy96/sky-hook/ctltypes"

func ErrBadRequest(detail string) ctltypes.ApiError {
	return ctltypes.ApiError{Status: 400, Title: "Bad Request", Detail: detail}
}

func ErrUnauthorized(detail string) ctltypes.ApiError {
	return ctltypes.ApiError{Status: 401, Title: "Unauthorized", Detail: detail}
}

func ErrNotFound(detail string) ctltypes.ApiError {
	return ctltypes.ApiError{Status: 404, Title: "Not Found", Detail: detail}
}

func ErrInternal(detail string) ctltypes.ApiError {
	return ctltypes.ApiError{Status: 500, Title: "Internal Server Error", Detail: detail}
}

// WrapError normalizes any error into ctltypes.ApiError.
func WrapError(err error) ctltypes.ApiError {
	if ae, ok := err.(*ctltypes.ApiError); ok {
		return *ae
	}
	if ae, ok := err.(ctltypes.ApiError); ok {
		return ae
	}
	return ErrInternal(err.Error())
}
