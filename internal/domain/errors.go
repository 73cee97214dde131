package domain

import "errors"

// Errores de dominio (sin dependencias externas).
var (
	ErrNotFound          = errors.New("recurso no encontrado")
	ErrInvalidInput      = errors.New("entrada inválida")
	ErrInvalidState      = errors.New("el estado actual no permite la operación")
	ErrAlreadyExists     = errors.New("recurso duplicado")
	ErrAlreadyProcessed  = errors.New("registro ya procesado")
	ErrDependencyFailure = errors.New("dependencia externa no disponible")
)
