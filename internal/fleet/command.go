// Package fleet manages drone provider integrations. Providers are created
// through a registry so vendor SDK bindings can be added without touching
// the surfaces that dispatch routes.
package fleet

import (
	"time"

	"github.com/aboldguess/Nerfdrone/internal/planner"
)

// Command is one atomic drone instruction: an action name plus its numeric
// parameters. Duration, when non-zero, is how long the simulated link holds
// the command before moving on.
type Command struct {
	Action     string
	Parameters map[string]float64
	Duration   time.Duration
}

// CommandsFromRoute flattens a planned flight path into dispatchable fleet
// commands, one per waypoint.
func CommandsFromRoute(path planner.FlightPath, cruiseSpeed float64) []Command {
	records := path.Commands(cruiseSpeed)
	commands := make([]Command, 0, len(records))
	for _, record := range records {
		commands = append(commands, Command{
			Action: record.Action,
			Parameters: map[string]float64{
				"latitude":     record.Latitude,
				"longitude":    record.Longitude,
				"altitude":     record.Altitude,
				"cruise_speed": record.CruiseSpeed,
			},
		})
	}
	return commands
}
