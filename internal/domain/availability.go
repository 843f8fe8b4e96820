package domain

// HourAvailability сигнал бэкенда: открыт ли час и помещается ли в него минимальная длительность
type HourAvailability struct {
	Hour      int
	Available bool
}
