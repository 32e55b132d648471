// Package models defines the canonical client-side records for the file
// sharing service. Every value here is fully resolved: backend field-name
// synonyms never reach these types; they are settled once by the normalize
// package.
package models
