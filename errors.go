package uvalign

import "errors"

var (
	// ErrNoSelection is returned when an invocation has no selected mesh objects.
	ErrNoSelection = errors.New("select at least one mesh object")
	// ErrNoUVLayer is returned for a mesh without an active UV layer.
	ErrNoUVLayer = errors.New("no active UV layer")
	// ErrDegenerateFace is returned when a face has fewer than three loops.
	ErrDegenerateFace = errors.New("face needs at least 3 loops")
	// ErrInvalidTolerance is returned for a negative or NaN tolerance.
	ErrInvalidTolerance = errors.New("uv tolerance must be a finite value >= 0")
	// ErrUnknownMesh is returned when an object references mesh data missing from the pool.
	ErrUnknownMesh = errors.New("unknown mesh data")
	// ErrInvalidScene is returned when a scene document fails validation.
	ErrInvalidScene = errors.New("invalid scene document")
)
