// Package sphinxdex provides an offline, CLI-based search tool for Sphinx
// documentation. It imports the searchindex.js artifact that Sphinx emits for
// its client-side search box, validates it, stores it locally and answers
// queries with the same ranking rules the browser would apply.
//
// This package contains domain types and interfaces following Ben Johnson's
// Standard Package Layout. Implementations live in subdirectories named
// after their primary dependency (e.g., sqlite/, goquery/, gemini/).
package sphinxdex
