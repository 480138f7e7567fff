// Package core contains the quality-gate orchestration logic: scope
// resolution, gate execution, output parsing, baseline tracking and
// response building.
package core
