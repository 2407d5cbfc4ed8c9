// Tastemap - Recommendation Explorer Dashboard
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/tastemap

package viewmodel

// Chart bucket labels, in display order.
const (
	LabelAvailable    = "Available"
	LabelNotAvailable = "Not Available"
)

// ChartBucket is one bar of the YouTube link availability chart.
type ChartBucket struct {
	Label   string  `json:"label"`
	Count   int     `json:"count"`
	Percent float64 `json:"percent"`
}

// ChartData always holds exactly two buckets: Available, then Not Available.
type ChartData struct {
	Buckets []ChartBucket `json:"buckets"`
	Total   int           `json:"total"`
}

// Chart counts records with and without a video link.
func (vm ViewModel) Chart() ChartData {
	withVideo, withoutVideo := vm.set.VideoCounts()
	total := withVideo + withoutVideo

	return ChartData{
		Buckets: []ChartBucket{
			{Label: LabelAvailable, Count: withVideo, Percent: percent(withVideo, total)},
			{Label: LabelNotAvailable, Count: withoutVideo, Percent: percent(withoutVideo, total)},
		},
		Total: total,
	}
}

func percent(n, total int) float64 {
	if total == 0 {
		return 0
	}
	return float64(n) * 100 / float64(total)
}
