package entity

// PermissionState статус доступа к камере
type PermissionState string

const (
	PermissionNotDetermined PermissionState = "not_determined" // Пользователь ещё не давал ответа
	PermissionDenied        PermissionState = "denied"         // Доступ запрещён
	PermissionRestricted    PermissionState = "restricted"     // Доступ ограничен политикой системы
	PermissionGranted       PermissionState = "granted"        // Доступ разрешён
)

// Granted сообщает, разрешён ли доступ к камере.
// Любой другой статус трактуется как запрет (fail-closed).
func (p PermissionState) Granted() bool {
	return p == PermissionGranted
}

// Retriable сообщает, имеет ли смысл запрашивать доступ повторно.
// При restricted запрос ничего не изменит: решает политика, а не пользователь.
func (p PermissionState) Retriable() bool {
	return p == PermissionNotDetermined || p == PermissionDenied
}
