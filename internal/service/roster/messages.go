package roster

import (
	"github.com/cmlabs-hris/hris-console/internal/domain/auth"
	"github.com/cmlabs-hris/hris-console/internal/domain/employee"
)

const (
	MsgUnauthenticated   = auth.MsgUnauthenticated
	MsgSessionExpired    = auth.MsgSessionExpired
	MsgFetchFailed       = employee.MsgFetchFailed
	MsgUpdateFailed      = employee.MsgUpdateFailed
	MsgCreateFailed      = employee.MsgCreateFailed
	MsgDeleteFailed      = employee.MsgDeleteFailed
	MsgExportFailed      = employee.MsgExportFailed
	MsgValidationBlocked = employee.MsgValidationBlocked
)

// Message turns a controller error into the text shown to the user.
func Message(err error) string {
	if err == nil {
		return ""
	}
	if msg := auth.SessionMessage(err); msg != "" {
		return msg
	}
	if msg := employee.Message(err); msg != "" {
		return msg
	}
	return err.Error()
}
