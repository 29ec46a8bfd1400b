// Package status derives the pod problem presentation shown on the overview:
// the error category, its recovery instructions, and data staleness.
package status

import (
	"time"

	"podpilot/internal/pod"
)

// StaleAfter is how long pod data may go without a status report before the
// overview shows "No Data". Exactly StaleAfter is still fresh.
const StaleAfter = 12 * time.Minute

type Category int

const (
	CategoryNone Category = iota
	CategoryNoData
	CategoryOcclusion
	CategoryNoInsulin
	CategoryExpired
	CategoryFault
)

func (c Category) Label() string {
	switch c {
	case CategoryNoData:
		return "No Data"
	case CategoryOcclusion:
		return "Pod Occlusion"
	case CategoryNoInsulin:
		return "No Insulin"
	case CategoryExpired:
		return "Pod Expired"
	case CategoryFault:
		return "Pod Error"
	default:
		return ""
	}
}

// IsStale reports whether the last pod status is older than StaleAfter.
// A pod that never reported is not stale; it has no data to age.
func IsStale(lastSync time.Time, hasLastSync bool, now time.Time) bool {
	if !hasLastSync {
		return false
	}
	return now.Sub(lastSync) > StaleAfter
}

// Categorize maps the pod condition to the single error category the
// overview surfaces. A fault is classified by its code and takes precedence
// over staleness; only a healthy pod that stopped reporting reads as NoData.
// An expired life state without a fault still reads as expired.
func Categorize(life pod.LifeState, fault *pod.FaultStatus, stale bool) Category {
	if fault != nil {
		switch {
		case fault.Code.IsOcclusion():
			return CategoryOcclusion
		case fault.Code == pod.ReservoirEmpty:
			return CategoryNoInsulin
		case fault.Code == pod.ExceededMaximumPodLife80Hrs:
			return CategoryExpired
		default:
			return CategoryFault
		}
	}
	if stale {
		return CategoryNoData
	}
	if life.Kind == pod.LifeExpired {
		return CategoryExpired
	}
	return CategoryNone
}

// Recovery returns the instruction text paired with a category.
func Recovery(c Category) string {
	switch c {
	case CategoryNoData:
		return "Make sure the controller and pod are close together, then refresh."
	case CategoryOcclusion:
		return "Insulin delivery has stopped. Remove the pod and start a new one."
	case CategoryNoInsulin:
		return "The reservoir is empty. Change the pod now."
	case CategoryExpired:
		return "Change the pod now. Delivery stops 8 hours after expiration or when no insulin remains."
	case CategoryFault:
		return "Insulin delivery has stopped. Change the pod now."
	default:
		return ""
	}
}

// PodOK reports whether the pod is communicating and delivering normally
// enough for routine commands to make sense.
func PodOK(comm pod.CommState, basalKnown bool) bool {
	switch comm {
	case pod.CommNoPod, pod.CommActivating, pod.CommDeactivating, pod.CommFault:
		return false
	}
	return basalKnown
}
