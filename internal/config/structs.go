package config

import (
	"time"

	"github.com/GoPowerDNS-Admin/GoPowerDNS-Templates/internal/logger"
)

// Session settings.
type Session struct {
	ExpiryTime time.Duration
}

// Config overall data structure.
type Config struct {
	DevMode   bool // enable dev mode for development
	DB        DB
	Log       logger.Log
	Title     string
	Webserver Webserver
	DNS       DNS
	PDNS      PDNS
	LDAP      LDAP
}

// Webserver implement webserver settings.
type Webserver struct {
	BrowseStatic   bool    // enable static file browsing (for development purposes only)
	DisableRecover bool    // disable recover middleware
	Domain         string  // domain name for the webserver
	Port           int     // listening port for the webserver
	ShutDownTime   int     // wait time for shutdown
	URL            string  // base url for the webserver
	Session        Session // session settings
	MetricsPath    string  // path for the prometheus handler, disabled when empty
}

// DNS holds the values substituted into zone template records.
type DNS struct {
	TTL        uint32 // default ttl for new template records
	NS1        string
	NS2        string
	NS3        string
	NS4        string
	Hostmaster string
}

// Nameservers returns the configured name servers in order, skipping empty slots.
func (d DNS) Nameservers() []string {
	out := make([]string, 0, 4) //nolint:mnd

	for _, ns := range []string{d.NS1, d.NS2, d.NS3, d.NS4} {
		if ns != "" {
			out = append(out, ns)
		}
	}

	return out
}

// PDNS holds the initial PowerDNS API connection.
// It is written to the settings table on first start only.
type PDNS struct {
	APIServerURL string
	APIKey       string
	VHost        string
}

// LDAP holds directory authentication settings.
type LDAP struct {
	Enabled      bool
	Host         string
	Port         int
	UseSSL       bool
	UseTLS       bool
	SkipVerify   bool
	BindDN       string
	BindPassword string
	BaseDN       string
	UserFilter   string // e.g. (uid={username})
	UsernameAttr string
	EmailAttr    string
	FullnameAttr string
	DefaultRole  string // role given to users created on first LDAP login
	Timeout      int    // seconds
}
