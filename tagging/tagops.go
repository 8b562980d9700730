package tagging

import "fmt"

// Marked-content operator emission. Deterministic text for a given
// role/identifier pair; no state involved.

// BeginSemantic returns the BDC operator opening a semantic sequence.
func BeginSemantic(role string, mcid int) string {
	return fmt.Sprintf("/%s <</MCID %d>> BDC\n", role, mcid)
}

// BeginArtifact returns the BMC operator opening an artifact sequence.
func BeginArtifact() string {
	return "/Artifact BMC\n"
}

// End returns the EMC operator closing either kind of sequence.
func End() string {
	return "EMC\n"
}
