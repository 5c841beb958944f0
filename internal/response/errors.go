package response

// ErrCode is a typed error code enum for consistent API error identification.
type ErrCode string

const (
	// ─── Authentication ────────────────────────────────────────────────
	ErrInvalidCredentials ErrCode = "INVALID_CREDENTIALS"
	ErrEmailTaken         ErrCode = "EMAIL_TAKEN"
	ErrTokenRequired      ErrCode = "TOKEN_REQUIRED"
	ErrTokenInvalid       ErrCode = "TOKEN_INVALID"
	ErrTokenExpired       ErrCode = "TOKEN_EXPIRED"
	ErrSessionInvalidated ErrCode = "SESSION_INVALIDATED"

	// ─── Authorization ─────────────────────────────────────────────────
	ErrForbidden ErrCode = "FORBIDDEN"
	ErrNotOwner  ErrCode = "NOT_OWNER"

	// ─── Validation ────────────────────────────────────────────────────
	ErrValidation     ErrCode = "VALIDATION_ERROR"
	ErrInvalidID      ErrCode = "INVALID_ID"
	ErrInvalidPayload ErrCode = "INVALID_PAYLOAD"

	// ─── Resources ─────────────────────────────────────────────────────
	ErrNotFound ErrCode = "NOT_FOUND"
	ErrConflict ErrCode = "CONFLICT"

	// ─── Assessment generation ─────────────────────────────────────────
	ErrQuestionsNotFound ErrCode = "QUESTIONS_NOT_FOUND"
	ErrTooManyForms      ErrCode = "TOO_MANY_FORMS"
	ErrGoogleNotLinked   ErrCode = "GOOGLE_NOT_LINKED"
	ErrUpstreamService   ErrCode = "UPSTREAM_SERVICE_ERROR"

	// ─── AI assistance ─────────────────────────────────────────────────
	ErrAIUnavailable     ErrCode = "AI_UNAVAILABLE"
	ErrAIInvalidResponse ErrCode = "AI_INVALID_RESPONSE"

	// ─── Rate Limiting ─────────────────────────────────────────────────
	ErrRateLimitExceeded ErrCode = "RATE_LIMIT_EXCEEDED"

	// ─── Server ────────────────────────────────────────────────────────
	ErrInternal ErrCode = "INTERNAL_ERROR"
)

// GetMessage returns a human-readable message for a given error code.
func GetMessage(code ErrCode) string {
	switch code {
	// ─── Authentication ────────────────────────────────────────────────
	case ErrInvalidCredentials:
		return "Correo o contraseña incorrectos."
	case ErrEmailTaken:
		return "Ya existe una cuenta con este correo."
	case ErrTokenRequired:
		return "Se requiere un token de autenticación."
	case ErrTokenInvalid:
		return "El token de autenticación no es válido."
	case ErrTokenExpired:
		return "El token de autenticación ha expirado."
	case ErrSessionInvalidated:
		return "Su sesión ha finalizado. Inicie sesión nuevamente."

	// ─── Authorization ─────────────────────────────────────────────────
	case ErrForbidden:
		return "No tiene permiso para acceder a este recurso."
	case ErrNotOwner:
		return "Solo el creador puede modificar este recurso."

	// ─── Validation ────────────────────────────────────────────────────
	case ErrValidation:
		return "Validación fallida. Revise los datos ingresados."
	case ErrInvalidID:
		return "El formato del ID no es válido."
	case ErrInvalidPayload:
		return "El cuerpo de la solicitud no es válido."

	// ─── Resources ─────────────────────────────────────────────────────
	case ErrNotFound:
		return "Recurso no encontrado."
	case ErrConflict:
		return "El recurso ya existe."

	// ─── Assessment generation ─────────────────────────────────────────
	case ErrQuestionsNotFound:
		return "Una o más preguntas solicitadas no existen en el banco."
	case ErrTooManyForms:
		return "El número de formas debe estar entre 1 y 26."
	case ErrGoogleNotLinked:
		return "Su cuenta de Google no está vinculada. Autorice el acceso primero."
	case ErrUpstreamService:
		return "Error del servidor al interactuar con servicios externos."

	// ─── AI assistance ─────────────────────────────────────────────────
	case ErrAIUnavailable:
		return "El asistente de IA no está disponible en este momento."
	case ErrAIInvalidResponse:
		return "El asistente de IA devolvió una respuesta inesperada. Intente nuevamente."

	// ─── Rate Limiting ─────────────────────────────────────────────────
	case ErrRateLimitExceeded:
		return "Demasiadas solicitudes. Intente nuevamente más tarde."

	// ─── Server ────────────────────────────────────────────────────────
	case ErrInternal:
		return "Ocurrió un error interno del servidor."
	default:
		return "Ocurrió un error inesperado."
	}
}
