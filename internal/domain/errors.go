package domain

import (
	"errors"
	"fmt"
)

// Clases de error del libro de créditos. Los handlers traducen cada clase a un
// código HTTP; los errores concretos envuelven su clase para que errors.Is
// funcione con ambos.
var (
	ErrValidation  = errors.New("entrada inválida")
	ErrNotFound    = errors.New("recurso no encontrado")
	ErrConflict    = errors.New("conflicto con el estado actual")
	ErrPersistence = errors.New("fallo de persistencia")
)

// Errores concretos (sin dependencias externas).
var (
	ErrInvalidBill     = kind(ErrValidation, "la factura no tiene productos válidos")
	ErrInvalidDiscount = kind(ErrValidation, "el descuento debe estar entre 0 y el subtotal")
	ErrInvalidPayment  = kind(ErrValidation, "monto de pago inválido")
	ErrBillOverpaid    = kind(ErrValidation, "el monto pagado supera el total de la factura")
	ErrInvalidCustomer = kind(ErrValidation, "nombre, teléfono y vehículo son requeridos")
	ErrDuplicatePhone  = kind(ErrConflict, "ya existe un cliente con ese teléfono")
	ErrOverpayment     = kind(ErrConflict, "el pago supera el crédito pendiente del cliente")
	ErrInvalidBackup   = kind(ErrValidation, "documento de respaldo inválido")

	ErrUnauthorized = errors.New("no autorizado")
	ErrLoginLocked  = errors.New("acceso bloqueado temporalmente")
)

type kindError struct {
	kind error
	msg  string
}

func kind(k error, msg string) error { return &kindError{kind: k, msg: msg} }

func (e *kindError) Error() string { return e.msg }

func (e *kindError) Unwrap() error { return e.kind }

// Validation envuelve un mensaje libre como ErrValidation.
func Validation(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrValidation, fmt.Sprintf(format, args...))
}

// Persistence marca err como ErrPersistence si aún no lo está.
func Persistence(op string, err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, ErrPersistence) {
		return err
	}
	return fmt.Errorf("%w: %s: %w", ErrPersistence, op, err)
}
