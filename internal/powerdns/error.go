package powerdns

import (
	"errors"
)

const (
	// ErrMsgClientNotInitialized is logged when a handler needs PowerDNS before Open ran.
	ErrMsgClientNotInitialized = "PowerDNS client not initialized"
	// ErrMsgClientNotInitializedDetailed is shown to the user in the same situation.
	ErrMsgClientNotInitializedDetailed = "PowerDNS client not initialized. Check the PowerDNS server settings."
)

var (
	// ErrClientNotInitialized is returned when the PowerDNS client is not initialized.
	ErrClientNotInitialized = errors.New(ErrMsgClientNotInitialized)
	// ErrNoServerSettings is returned by Open when no API URL is configured.
	ErrNoServerSettings = errors.New("no PowerDNS server settings configured")
)
