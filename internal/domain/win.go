package domain

// WinResult describes a finished game.
type WinResult struct {
	Winner Team
	Reason string
}

// CheckPolicyWin evaluates the counter-based win conditions. The Hitler
// election and assassination conditions are checked at their own decision
// points since they are not expressible from the counters.
func CheckPolicyWin(liberalPolicies, fascistPolicies int) *WinResult {
	if liberalPolicies >= 5 {
		return &WinResult{Winner: TeamLiberal, Reason: "Five Liberal Policies enacted!"}
	}
	if fascistPolicies >= 6 {
		return &WinResult{Winner: TeamFascist, Reason: "Six Fascist Policies enacted!"}
	}
	return nil
}
