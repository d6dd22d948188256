package vehicle

// Category groups catalog features for display.
type Category string

const (
	CategoryADAS    Category = "ADAS"
	CategoryComfort Category = "Comfort"
	CategoryInfo    Category = "Info"
	CategoryUtility Category = "Utility"
)

// FeatureDef describes one canonical feature: how it is labelled, which raw
// columns may carry it and which description phrases imply it.
type FeatureDef struct {
	Key        string   `json:"key"`
	Label      string   `json:"label"`
	Category   Category `json:"category"`
	Candidates []string `json:"candidates,omitempty"`
	TextHints  []string `json:"textHints,omitempty"`
}

// Catalog is an ordered, immutable set of feature definitions.
type Catalog struct {
	defs    []FeatureDef
	byKey   map[string]int
	byLabel map[string]int
}

// NewCatalog indexes defs. Later duplicates of a key are ignored.
func NewCatalog(defs []FeatureDef) *Catalog {
	c := &Catalog{
		byKey:   make(map[string]int, len(defs)),
		byLabel: make(map[string]int, len(defs)),
	}
	for _, d := range defs {
		if _, dup := c.byKey[d.Key]; dup {
			continue
		}
		c.byKey[d.Key] = len(c.defs)
		c.byLabel[d.Label] = len(c.defs)
		c.defs = append(c.defs, d)
	}
	return c
}

// Defs returns the definitions in catalog order.
func (c *Catalog) Defs() []FeatureDef { return c.defs }

// Len returns the number of definitions.
func (c *Catalog) Len() int { return len(c.defs) }

// Lookup returns the definition for key.
func (c *Catalog) Lookup(key string) (FeatureDef, bool) {
	i, ok := c.byKey[key]
	if !ok {
		return FeatureDef{}, false
	}
	return c.defs[i], true
}

// LookupLabel returns the definition whose label is label.
func (c *Catalog) LookupLabel(label string) (FeatureDef, bool) {
	i, ok := c.byLabel[label]
	if !ok {
		return FeatureDef{}, false
	}
	return c.defs[i], true
}

var defaultCatalog = NewCatalog([]FeatureDef{
	// ADAS
	{Key: "aeb", Label: "Autonomous emergency braking", Category: CategoryADAS,
		Candidates: []string{"adas_aeb", "frenado_emergencia", "frenado_autonomo", "autonomous_emergency_braking"},
		TextHints:  []string{"frenado autonomo", "frenado de emergencia", "emergency braking"}},
	{Key: "lane_keep", Label: "Lane keeping assist", Category: CategoryADAS,
		Candidates: []string{"adas_lane_keep", "lka", "lane_keeping", "mantenimiento_carril", "asistente_carril"},
		TextHints:  []string{"lane", "carril"}},
	{Key: "blind_spot", Label: "Blind spot monitor", Category: CategoryADAS,
		Candidates: []string{"adas_blind_spot", "bsm", "punto_ciego", "monitor_punto_ciego"},
		TextHints:  []string{"blind spot", "punto ciego", "angulo muerto"}},
	{Key: "adaptive_cruise", Label: "Adaptive cruise control", Category: CategoryADAS,
		Candidates: []string{"adas_acc", "acc", "crucero_adaptativo"},
		TextHints:  []string{"adaptive cruise", "crucero adaptativo"}},
	{Key: "rear_cross_traffic", Label: "Rear cross-traffic alert", Category: CategoryADAS,
		Candidates: []string{"adas_rcta", "rcta", "trafico_cruzado"},
		TextHints:  []string{"cross traffic", "cross-traffic", "trafico cruzado"}},
	{Key: "auto_high_beam", Label: "Automatic high beams", Category: CategoryADAS,
		Candidates: []string{"adas_auto_high_beam", "luces_altas_automaticas"},
		TextHints:  []string{"high beam", "luces altas automaticas"}},
	{Key: "camera_360", Label: "360° camera", Category: CategoryADAS,
		Candidates: []string{"camara_360", "surround_view", "vision_360"},
		TextHints:  []string{"camara 360", "camera 360", "vista 360", "360 view", "surround view"}},
	{Key: "forward_collision_warning", Label: "Forward collision warning", Category: CategoryADAS,
		Candidates: []string{"adas_fcw", "fcw", "alerta_colision"}},
	{Key: "driver_attention", Label: "Driver attention monitor", Category: CategoryADAS,
		Candidates: []string{"adas_driver_attention", "alerta_fatiga"}},
	{Key: "traffic_sign_recognition", Label: "Traffic sign recognition", Category: CategoryADAS,
		Candidates: []string{"adas_tsr", "tsr", "reconocimiento_senales"}},

	// Comfort
	{Key: "rain_sensor", Label: "Rain-sensing wipers", Category: CategoryComfort,
		Candidates: []string{"sensor_lluvia", "rain_sensing_wipers"},
		TextHints:  []string{"rain sensor", "sensor de lluvia", "limpiaparabrisas automatico"}},
	{Key: "auto_door_close", Label: "Soft-close doors", Category: CategoryComfort,
		Candidates: []string{"cierre_automatico_puertas", "soft_close"},
		TextHints:  []string{"soft close", "soft-close", "cierre suave", "cierre automatico de puertas"}},
	{Key: "memory_seats", Label: "Memory seats", Category: CategoryComfort,
		Candidates: []string{"asientos_memoria", "memoria_asiento"},
		TextHints:  []string{"memory seat", "asiento con memoria", "asientos con memoria", "memoria de asiento"}},
	{Key: "heated_seats", Label: "Heated seats", Category: CategoryComfort,
		Candidates: []string{"asientos_calefactables"}},
	{Key: "ventilated_seats", Label: "Ventilated seats", Category: CategoryComfort,
		Candidates: []string{"asientos_ventilados"}},
	{Key: "sunroof", Label: "Sunroof", Category: CategoryComfort,
		Candidates: []string{"quemacocos", "panoramic_roof", "techo_panoramico"}},
	{Key: "climate_dual_zone", Label: "Dual-zone climate control", Category: CategoryComfort,
		Candidates: []string{"clima_bizona", "dual_zone_climate"}},
	{Key: "keyless_entry", Label: "Keyless entry and start", Category: CategoryComfort,
		Candidates: []string{"acceso_sin_llave", "push_start"}},
	{Key: "power_seats", Label: "Power-adjustable seats", Category: CategoryComfort,
		Candidates: []string{"asientos_electricos"}},

	// Info
	{Key: "wireless_charging", Label: "Wireless charging", Category: CategoryInfo,
		Candidates: []string{"cargador_inalambrico", "carga_inalambrica", "qi_charger"},
		TextHints:  []string{"wireless charg", "carga inalambrica", "cargador inalambrico"}},
	{Key: "apple_carplay", Label: "Apple CarPlay", Category: CategoryInfo,
		Candidates: []string{"carplay"}},
	{Key: "android_auto", Label: "Android Auto", Category: CategoryInfo,
		Candidates: []string{"androidauto"}},
	{Key: "head_up_display", Label: "Head-up display", Category: CategoryInfo,
		Candidates: []string{"hud", "pantalla_parabrisas"}},
	{Key: "digital_cluster", Label: "Digital instrument cluster", Category: CategoryInfo,
		Candidates: []string{"cluster_digital", "tablero_digital"}},
	{Key: "premium_audio", Label: "Premium audio", Category: CategoryInfo,
		Candidates: []string{"audio_premium", "sonido_premium"}},

	// Utility
	{Key: "parking_sensors_front", Label: "Front parking sensors", Category: CategoryUtility,
		Candidates: []string{"sensores_estacionamiento_delanteros", "front_parking_sensors", "sensores_delanteros"},
		TextHints:  []string{"sensores delanteros", "front parking"}},
	{Key: "parking_sensors_rear", Label: "Rear parking sensors", Category: CategoryUtility,
		Candidates: []string{"sensores_estacionamiento_traseros", "rear_parking_sensors", "sensores_traseros"},
		TextHints:  []string{"sensores traseros", "rear parking"}},
	{Key: "parking_sensors_side", Label: "Side parking sensors", Category: CategoryUtility,
		Candidates: []string{"sensores_estacionamiento_laterales", "side_parking_sensors", "sensores_laterales"},
		TextHints:  []string{"sensores laterales", "side parking"}},
	{Key: "power_tailgate", Label: "Power tailgate", Category: CategoryUtility,
		Candidates: []string{"porton_electrico", "cajuela_electrica", "liftgate_electrico"},
		TextHints:  []string{"power tailgate", "power liftgate", "porton electrico", "cajuela electrica"}},
})

// DefaultCatalog returns the built-in 29-feature catalog.
func DefaultCatalog() *Catalog { return defaultCatalog }
