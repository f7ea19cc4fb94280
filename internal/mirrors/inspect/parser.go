package inspect

import "strings"

const (
	checkedOutLinePrefixConstant     = "*"
	detachedAnnotationPrefixConstant = "("
	trackingAnnotationOpenConstant   = "["
	trackingAnnotationCloseConstant  = "]"
	trackingAnnotationDetailConstant = ":"
	lineBreakConstant                = "\n"
)

// TrackingBranchDetails is the parsed form of one checked-out branch line from
// a verbose branch listing.
type TrackingBranchDetails struct {
	CheckedOut   bool
	BranchName   string
	RemoteName   string
	RemoteBranch string
}

// ParseTrackingBranchList extracts the checked-out branch and its tracking
// annotation from `git branch -lvv` style output.
//
// The listing marks the current branch with a leading asterisk and, when a
// tracking relationship exists, appends a bracketed `[remote/branch]` token
// that may carry ahead/behind details after a colon. A detached HEAD renders
// the marker followed by a parenthesized description instead of a branch name.
// Absent or malformed annotations degrade to empty fields rather than errors.
func ParseTrackingBranchList(listingOutput string) TrackingBranchDetails {
	for _, listingLine := range strings.Split(listingOutput, lineBreakConstant) {
		trimmedLine := strings.TrimSpace(listingLine)
		if !strings.HasPrefix(trimmedLine, checkedOutLinePrefixConstant) {
			continue
		}

		markedLine := strings.TrimSpace(strings.TrimPrefix(trimmedLine, checkedOutLinePrefixConstant))
		parsedDetails := TrackingBranchDetails{CheckedOut: true}

		if strings.HasPrefix(markedLine, detachedAnnotationPrefixConstant) {
			return parsedDetails
		}

		lineFields := strings.Fields(markedLine)
		if len(lineFields) == 0 {
			return parsedDetails
		}
		parsedDetails.BranchName = lineFields[0]

		annotationStart := strings.Index(markedLine, trackingAnnotationOpenConstant)
		if annotationStart == -1 {
			return parsedDetails
		}
		annotationEnd := strings.Index(markedLine[annotationStart:], trackingAnnotationCloseConstant)
		if annotationEnd == -1 {
			return parsedDetails
		}

		trackingAnnotation := markedLine[annotationStart+1 : annotationStart+annotationEnd]
		if detailIndex := strings.Index(trackingAnnotation, trackingAnnotationDetailConstant); detailIndex != -1 {
			trackingAnnotation = trackingAnnotation[:detailIndex]
		}

		separatorIndex := strings.Index(trackingAnnotation, trackingReferenceSeparatorConstant)
		if separatorIndex <= 0 {
			return parsedDetails
		}

		parsedDetails.RemoteName = trackingAnnotation[:separatorIndex]
		parsedDetails.RemoteBranch = trackingAnnotation[separatorIndex+1:]
		return parsedDetails
	}

	return TrackingBranchDetails{}
}
