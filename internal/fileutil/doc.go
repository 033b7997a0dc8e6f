// Package fileutil holds filesystem helpers shared by the organizer.
package fileutil
