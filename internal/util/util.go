package util

func DefaultValue[T any]() T {
	var ret T
	return ret
}
