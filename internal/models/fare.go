package models

import "sort"

type ClassCode = string

const (
	ClassFirstAC   ClassCode = "1A"
	ClassSecondAC  ClassCode = "2A"
	ClassThirdAC   ClassCode = "3A"
	ClassThirdEcon ClassCode = "3E"
	ClassSleeper   ClassCode = "SL"
	ClassChairCar  ClassCode = "CC"
	ClassSecondSit ClassCode = "2S"
)

type FareEntry struct {
	Capacity int `json:"capacity"`
	Fare     int `json:"fare"`
}

// FareTable maps class codes to seat capacity and base fare. It is built
// once and only read afterwards.
type FareTable struct {
	entries map[ClassCode]FareEntry
}

func NewFareTable(entries map[ClassCode]FareEntry) FareTable {
	copied := make(map[ClassCode]FareEntry, len(entries))
	for k, v := range entries {
		copied[k] = v
	}
	return FareTable{entries: copied}
}

func DefaultFareTable() FareTable {
	return NewFareTable(map[ClassCode]FareEntry{
		ClassFirstAC:   {Capacity: 20, Fare: 2000},
		ClassSecondAC:  {Capacity: 40, Fare: 1500},
		ClassThirdAC:   {Capacity: 60, Fare: 1100},
		ClassThirdEcon: {Capacity: 70, Fare: 900},
		ClassSleeper:   {Capacity: 120, Fare: 400},
		ClassChairCar:  {Capacity: 80, Fare: 700},
		ClassSecondSit: {Capacity: 100, Fare: 300},
	})
}

func (t FareTable) Lookup(class ClassCode) (FareEntry, bool) {
	e, ok := t.entries[class]
	return e, ok
}

func (t FareTable) Classes() []ClassCode {
	classes := make([]ClassCode, 0, len(t.entries))
	for k := range t.entries {
		classes = append(classes, k)
	}
	sort.Strings(classes)
	return classes
}

// ClassAvailability is the per-class view shown before booking. Available
// goes negative when a class was overbooked and is never clamped.
type ClassAvailability struct {
	Class     ClassCode `json:"class"`
	Capacity  int       `json:"capacity"`
	Booked    int       `json:"booked"`
	Available int       `json:"available"`
	Fare      int       `json:"fare"`
	Unknown   bool      `json:"unknown,omitempty"`
}

// TrainAvailability is the availability of every class offered by one train,
// taken from a single catalog lookup.
type TrainAvailability struct {
	TrainNo   string
	TrainName string
	Classes   []ClassAvailability
}
