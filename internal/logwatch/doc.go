// Package logwatch turns the game client's Player.log into typed events.
//
// Two readers share the same line classifier:
//
//   - Tailer is a synchronous, poll-driven reader. Each Poll call returns
//     the events found in complete lines appended since the previous call
//     and advances a byte cursor. A missing file is a normal state and
//     yields no events.
//   - Follower wraps nxadm/tail and streams events over a channel, waiting
//     for the file to be created and reopening it when it is recreated.
//
// # Classification
//
// Each line produces at most one Event. Rules are evaluated in order and
// the first match wins:
//
//   - "GlobalUserData:SetMatchingMode ... Invoked: <word>" -> KindMatchingMode
//   - "Selected MatchingRegion : <word>"                    -> KindRegion
//   - "SceneManager:LoadScene Loading" / "LoadScene: Loading" -> StateLoadingScreen
//   - "SceneManager:LoadScene Lobby"                         -> StateLobby
//   - "GameClient created"                                  -> StateGameStarted
//
// Lines are decoded permissively: invalid UTF-8 is dropped rather than
// reported.
package logwatch
