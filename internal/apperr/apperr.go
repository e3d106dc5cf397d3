// Package apperr defines the domain error taxonomy. Services return these
// typed errors and handlers translate them to HTTP status codes, so the
// business layer never imports gin or knows about status codes.
package apperr

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

// Kind classifies a domain error.
type Kind int

const (
	KindNotFound Kind = iota + 1
	KindSinFormula
	KindCostoIncompleto
	KindStockInsuficiente
	KindCantidadInvalida
	KindMonedaInvalida
	KindRecursoOcupado
	KindConflicto
)

// Error is the concrete domain error. Detalle carries structured data for
// kinds that have it (e.g. the shortfall list on KindStockInsuficiente).
type Error struct {
	Kind    Kind
	Msg     string
	Detalle any
	cause   error
}

func (e *Error) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %v", e.Msg, e.cause)
	}
	return e.Msg
}

func (e *Error) Unwrap() error { return e.cause }

// KindOf returns the Kind of err, or 0 if err is not an apperr.Error.
func KindOf(err error) Kind {
	var ae *Error
	if errors.As(err, &ae) {
		return ae.Kind
	}
	return 0
}

func NotFound(recurso string) *Error {
	return &Error{Kind: KindNotFound, Msg: fmt.Sprintf("%s no encontrado", recurso)}
}

// SinFormula: the product has no recipe rows, so no cost can be derived.
func SinFormula(producto string) *Error {
	return &Error{Kind: KindSinFormula, Msg: fmt.Sprintf("el producto '%s' no tiene formula registrada", producto)}
}

// CostoIncompleto names every raw material in the recipe missing a unit cost.
func CostoIncompleto(materias []string) *Error {
	return &Error{
		Kind:    KindCostoIncompleto,
		Msg:     "hay materias primas sin costo unitario registrado",
		Detalle: materias,
	}
}

// Faltante is one line of an insufficient-stock report.
type Faltante struct {
	Item       string          `json:"item"`
	Requerido  decimal.Decimal `json:"requerido"`
	Disponible decimal.Decimal `json:"disponible"`
}

// StockInsuficiente carries the full shortfall list: the caller sees every
// item that blocked the operation, not just the first one checked.
func StockInsuficiente(faltantes []Faltante) *Error {
	return &Error{
		Kind:    KindStockInsuficiente,
		Msg:     "stock insuficiente",
		Detalle: faltantes,
	}
}

// Faltantes extracts the shortfall list, or nil if err is another kind.
func Faltantes(err error) []Faltante {
	var ae *Error
	if errors.As(err, &ae) && ae.Kind == KindStockInsuficiente {
		if f, ok := ae.Detalle.([]Faltante); ok {
			return f
		}
	}
	return nil
}

func CantidadInvalida(msg string) *Error {
	return &Error{Kind: KindCantidadInvalida, Msg: msg}
}

func MonedaInvalida(moneda string) *Error {
	return &Error{Kind: KindMonedaInvalida, Msg: fmt.Sprintf("moneda no soportada: %s", moneda)}
}

// RecursoOcupado maps lock-wait timeouts: another writer holds the rows.
func RecursoOcupado() *Error {
	return &Error{Kind: KindRecursoOcupado, Msg: "el recurso esta siendo modificado por otra operacion, intente de nuevo"}
}

func Conflicto(msg string) *Error {
	return &Error{Kind: KindConflicto, Msg: msg}
}

// Wrap attaches a cause while keeping the Kind visible to errors.As.
func Wrap(err error, kind Kind, msg string) *Error {
	return &Error{Kind: kind, Msg: msg, cause: err}
}
