package sync

// masterRow maps the master sheet's column order (A through M) onto named
// cells so a shifted or missing column shows up here and not as an index bug.
type masterRow struct {
	RutDni               string
	Nombre               string
	Estado               string
	FechaCambioSS        string
	FechaIngresoSermaluc string
	FechaFiniquito       string
	FechaFinalizacionSS  string
	CentroCosto          string
	NombreServicio       string
	Cliente              string
	Tarifa               string
	Cargo                string
	Coordinador          string
}

func newMasterRow(cells []string) masterRow {
	at := func(i int) string {
		if i < len(cells) {
			return cells[i]
		}
		return ""
	}
	return masterRow{
		RutDni:               at(0),
		Nombre:               at(1),
		Estado:               at(2),
		FechaCambioSS:        at(3),
		FechaIngresoSermaluc: at(4),
		FechaFiniquito:       at(5),
		FechaFinalizacionSS:  at(6),
		CentroCosto:          at(7),
		NombreServicio:       at(8),
		Cliente:              at(9),
		Tarifa:               at(10),
		Cargo:                at(11),
		Coordinador:          at(12),
	}
}

// hrRow is the two-column layout shared by the Chile and Peru HR sheets.
type hrRow struct {
	RutDni              string
	FechaIngresoOficial string
}

func newHRRow(cells []string) hrRow {
	at := func(i int) string {
		if i < len(cells) {
			return cells[i]
		}
		return ""
	}
	return hrRow{
		RutDni:              at(0),
		FechaIngresoOficial: at(1),
	}
}
