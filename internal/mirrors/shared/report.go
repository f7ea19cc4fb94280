package shared

// NewHealthReport constructs an empty report with initialized groupings.
func NewHealthReport() HealthReport {
	return HealthReport{
		PodsByWarning: map[string]map[string][]string{},
		PodsByError:   map[string]map[string][]string{},
	}
}

// AddWarning records a warning finding for the pod version under its message.
func (report *HealthReport) AddWarning(message string, podName string, podVersion string) {
	if report.PodsByWarning == nil {
		report.PodsByWarning = map[string]map[string][]string{}
	}
	report.WarningOrder = appendMessageOnce(report.WarningOrder, report.PodsByWarning, message)
	report.PodsByWarning[message][podName] = append(report.PodsByWarning[message][podName], podVersion)
}

// AddError records an error finding for the pod version under its message.
func (report *HealthReport) AddError(message string, podName string, podVersion string) {
	if report.PodsByError == nil {
		report.PodsByError = map[string]map[string][]string{}
	}
	report.ErrorOrder = appendMessageOnce(report.ErrorOrder, report.PodsByError, message)
	report.PodsByError[message][podName] = append(report.PodsByError[message][podName], podVersion)
}

// Merge folds another report into this one, keyed identically by message so
// the same finding groups together across mirrors.
func (report *HealthReport) Merge(otherReport HealthReport) {
	report.AnalyzedCount += otherReport.AnalyzedCount

	for _, warningMessage := range otherReport.WarningOrder {
		for podName, podVersions := range otherReport.PodsByWarning[warningMessage] {
			for _, podVersion := range podVersions {
				report.AddWarning(warningMessage, podName, podVersion)
			}
		}
	}

	for _, errorMessage := range otherReport.ErrorOrder {
		for podName, podVersions := range otherReport.PodsByError[errorMessage] {
			for _, podVersion := range podVersions {
				report.AddError(errorMessage, podName, podVersion)
			}
		}
	}
}

func appendMessageOnce(messageOrder []string, podsByMessage map[string]map[string][]string, message string) []string {
	if _, messageSeen := podsByMessage[message]; !messageSeen {
		messageOrder = append(messageOrder, message)
		podsByMessage[message] = map[string][]string{}
	}
	return messageOrder
}
