package purchases

import "sort"

// Urutan ukuran baku utk tampilan "beli lagi".
var sizeTable = []string{"xs", "s", "m", "l", "xl"}

var sizeRank = func() map[string]int {
	m := make(map[string]int, len(sizeTable))
	for i, s := range sizeTable {
		m[s] = i
	}
	return m
}()

// SortSizes: ukuran yg ada di tabel urut sesuai posisi tabel; sisanya
// setelah semua ukuran tabel, antar mereka alfabetis.
func SortSizes(sizes []string) {
	sort.SliceStable(sizes, func(i, j int) bool {
		ri, iok := sizeRank[sizes[i]]
		rj, jok := sizeRank[sizes[j]]
		switch {
		case iok && jok:
			return ri < rj
		case iok:
			return true
		case jok:
			return false
		default:
			return sizes[i] < sizes[j]
		}
	})
}
