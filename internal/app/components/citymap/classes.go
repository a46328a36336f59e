package citymap

import (
	twmerge "github.com/Oudwins/tailwind-merge-go"
)

const (
	chipBase     = "citymap-chip inline-flex items-center gap-2 rounded-full border px-3 py-1.5 text-sm font-medium transition-colors bg-white text-gray-700 border-gray-200 hover:bg-gray-50"
	chipSelected = "citymap-chip-selected bg-indigo-600 text-white border-indigo-600 hover:bg-indigo-700"
	badgeBase    = "citymap-chip-count rounded-full bg-white/20 px-2 py-0.5 text-xs font-semibold"
	popupBase    = "citymap-popup w-64 rounded-xl bg-white p-4 shadow-lg"
	errorBase    = "citymap-error flex h-full flex-col items-center justify-center gap-2 rounded-xl border border-red-200 bg-red-50 p-6 text-red-700"
)

func chipClass(selected bool) string {
	if selected {
		return twmerge.Merge(chipBase, chipSelected)
	}
	return chipBase
}
