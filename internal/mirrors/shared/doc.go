// Package shared declares the collaborator interfaces, report model, and error
// taxonomy common to the mirror lifecycle, inspection, and lint services.
package shared
