package model

// Conflict group names used by the default catalog.
const (
	GroupAccuracy        = "accuracy"
	GroupSpineBeach      = "spine_beach"
	GroupBoats           = "boats"
	GroupSwim            = "swim"
	GroupTradingPostFree = "trading_post_free_time"
	GroupTradingPostShow = "trading_post_shower"
)

func beachStaffed(name string, staff int, duration float64, groups ...string) Activity {
	return Activity{
		Name: name, Category: CategoryBeach, Duration: duration, Wet: true,
		Staff: staff, BeachStaffed: true, Zone: ZoneBeach, Cluster: "Beach",
		ConflictGroups: groups,
	}
}

func area(name, areaName, cluster string, zone Zone, staff int, groups ...string) Activity {
	return Activity{
		Name: name, Category: CategoryExclusive, Duration: 1, Staff: staff,
		Zone: zone, Area: areaName, Cluster: cluster, ConflictGroups: groups,
	}
}

func capacity(name string, zone Zone, limit int, unit Unit, staff int, duration float64) Activity {
	return Activity{
		Name: name, Category: CategoryCapacity, Duration: duration, Staff: staff,
		Zone: zone, Capacity: limit, CapacityUnit: unit,
	}
}

// DefaultActivities returns the standard camp activity list.
func DefaultActivities() []Activity {
	at := beachStaffed(AquaTrampoline, 2, 1, GroupSpineBeach)
	at.ShareLimit = 2
	at.ShareMaxPeople = 16
	polo := beachStaffed("Water Polo", 2, 1, GroupSpineBeach)
	polo.ShareLimit = 2

	sailing := area(Sailing, Sailing, "Beach", ZoneBeach, 1)
	sailing.Duration = 1.5
	sailing.ThursdayDuration = 2
	sailing.Wet = true

	natureCanoe := area("Nature Canoe", "Nature Canoe", "Nature", ZoneBeach, 1, GroupBoats)
	natureCanoe.Wet = true

	tower := area("Climbing Tower", "Tower", "Tower", ZoneTower, 1)
	tower.Strenuous = true
	tower.LargeTroopScouts = 15
	tower.LargeTroopDuration = 2

	delta := area(Delta, Delta, "", ZoneDelta, 1)
	delta.PerCommissioner = true
	superTroop := area(SuperTroop, SuperTroop, "", ZoneBeach, 1)
	superTroop.PerCommissioner = true

	reflection := capacity(Reflection, ZoneCampsite, 0, UnitTroops, 1, 1)
	reflection.Days = []Day{Friday}

	tradingPost := capacity("Trading Post", ZoneBeach, 2, UnitTroops, 1, 1)
	tradingPost.ConflictGroups = []string{GroupTradingPostFree, GroupTradingPostShow}

	shower := area("Shower House", "Shower House", "", ZoneBeach, 0, GroupTradingPostShow)

	discGolf := capacity("Disc Golf", ZoneOffCamp, 2, UnitTroops, 0, 1)
	discGolf.Days = []Day{Tuesday}
	history := capacity("History Center", ZoneOffCamp, 2, UnitTroops, 0, 1)
	history.Days = []Day{Tuesday}

	acts := []Activity{
		at, polo,
		beachStaffed("Greased Watermelon", 2, 1, GroupSpineBeach),
		beachStaffed("Troop Canoe", 2, 1, GroupBoats),
		beachStaffed("Troop Kayak", 2, 1, GroupBoats),
		beachStaffed("Canoe Snorkel", 3, 2, GroupBoats),
		beachStaffed("Float for Floats", 3, 2, GroupBoats),
		beachStaffed("Underwater Obstacle Course", 2, 1, GroupSwim),
		beachStaffed("Troop Swim", 2, 1, GroupSwim),
		sailing, natureCanoe,
		capacity("Fishing", ZoneBeach, 2, UnitTroops, 0, 1),
		capacity("Sauna", ZoneBeach, 24, UnitPeople, 0, 1),
		shower, tradingPost,
		area("9 Square", "9 Square", "", ZoneBeach, 0),
		area("Gaga Ball", "Gaga Ball", "", ZoneBeach, 0),

		area("Hemp Craft", "Handicrafts", "Handicrafts", ZoneBeach, 1),
		area("Monkey's Fist", "Handicrafts", "Handicrafts", ZoneBeach, 1),
		area("Tie Dye", "Handicrafts", "Handicrafts", ZoneBeach, 1),
		area("Woggle Neckerchief Slide", "Handicrafts", "Handicrafts", ZoneBeach, 1),

		area("Dr. DNA", "Nature Center", "Nature", ZoneBeach, 1),
		area("Loon Lore", "Nature Center", "Nature", ZoneBeach, 1),
		area("Ecosystem in a Jar", "Nature Center", "Nature", ZoneBeach, 1),
		area("Nature Salad", "Nature Center", "Nature", ZoneBeach, 1),
		area("Nature Bingo", "Nature Center", "Nature", ZoneBeach, 1),

		area("Archery", "Archery", "Shooting", ZoneBeach, 1, GroupAccuracy),
		area("Troop Rifle", "Rifle Range", "Shooting", ZoneBeach, 1, GroupAccuracy),
		area("Troop Shotgun", "Rifle Range", "Shooting", ZoneBeach, 1, GroupAccuracy),

		tower,
		strenuous(area("Chopped!", "Outdoor Skills", "Outdoor Skills", ZoneOutdoorSkills, 1)),
		strenuous(area("GPS & Geocaching", "Outdoor Skills", "Outdoor Skills", ZoneOutdoorSkills, 1)),
		strenuous(area("Knots and Lashings", "Outdoor Skills", "Outdoor Skills", ZoneOutdoorSkills, 1)),
		strenuous(area("Orienteering", "Outdoor Skills", "Outdoor Skills", ZoneOutdoorSkills, 1)),
		strenuous(area("Ultimate Survivor", "Outdoor Skills", "Outdoor Skills", ZoneOutdoorSkills, 1)),
		strenuous(area("What's Cooking", "Outdoor Skills", "Outdoor Skills", ZoneOutdoorSkills, 1)),

		delta, superTroop, reflection,

		capacity("Back of the Moon", ZoneOffCamp, 2, UnitTroops, 1, 3),
		capacity("Itasca State Park", ZoneOffCamp, 2, UnitTroops, 0, 3),
		capacity("Tamarac Wildlife Refuge", ZoneOffCamp, 2, UnitTroops, 0, 3),
		discGolf, history,

		{
			Name: CampsiteFreeTime, Category: CategoryFill, Duration: 1, Zone: ZoneCampsite,
			ConflictGroups: []string{GroupTradingPostFree},
		},
	}
	return acts
}

func strenuous(a Activity) Activity {
	a.Strenuous = true
	return a
}

// DefaultCatalog returns a catalog built from DefaultActivities.
func DefaultCatalog() *Catalog {
	c, err := NewCatalog(DefaultActivities())
	if err != nil {
		panic(err)
	}
	return c
}

// DefaultFillOrder is the order fill candidates are tried in.
var DefaultFillOrder = []string{"Gaga Ball", "9 Square", "Fishing", "Sauna", CampsiteFreeTime}
