// Package zonetemplate implements the rules around zone templates: who may
// edit a template, what a valid template record looks like, how the
// placeholders in a record are expanded and how a template is turned into
// the RRsets of a new zone.
//
// Persistence lives in internal/db/controller/zonetemplate. This package
// validates input before it reaches the database and keeps the ownership
// rules in one place for the web handlers and the CLI.
package zonetemplate
