package inspect

import "fmt"

const (
	localCopyStatusLineConstant      = "- Type: local copy"
	gitBranchStatusTemplateConstant  = "- Type: git (%s branch)"
	gitDetachedStatusLineConstant    = "- Type: git (detached)"
	noRemoteInformationLineConstant  = "- Remote: no remote information available"
	remoteNameStatusTemplateConstant = "- Remote: %s"
	remoteURLStatusTemplateConstant  = "- URL:  %s"
	mirrorPathStatusTemplateConstant = "- Path: %s"
)

// FormatStatusLines renders the human-readable status block for one mirror.
//
// Absence at any stage of the tracking chain renders as a descriptive line
// rather than an error: "local copy" for directories without version control
// metadata and "no remote information available" when no tracking remote is
// configured. The URL line is present only when a fetch URL was resolved.
func FormatStatusLines(mirrorName string, mirrorPath string, trackingInfo RemoteTrackingInfo) []string {
	statusLines := []string{mirrorName}

	switch {
	case !trackingInfo.HasVersionControl:
		statusLines = append(statusLines, localCopyStatusLineConstant)
	case len(trackingInfo.BranchName) == 0:
		statusLines = append(statusLines, gitDetachedStatusLineConstant, noRemoteInformationLineConstant)
	case len(trackingInfo.RemoteName) == 0:
		statusLines = append(statusLines, fmt.Sprintf(gitBranchStatusTemplateConstant, trackingInfo.BranchName), noRemoteInformationLineConstant)
	default:
		statusLines = append(statusLines, fmt.Sprintf(gitBranchStatusTemplateConstant, trackingInfo.BranchName), fmt.Sprintf(remoteNameStatusTemplateConstant, trackingInfo.RemoteName))
		if len(trackingInfo.RemoteURL) > 0 {
			statusLines = append(statusLines, fmt.Sprintf(remoteURLStatusTemplateConstant, trackingInfo.RemoteURL))
		}
	}

	statusLines = append(statusLines, fmt.Sprintf(mirrorPathStatusTemplateConstant, mirrorPath))
	return statusLines
}
