package main

const configTemplate = `# Tournament Configuration
# ========================
# This file defines the parameters for scheduling a round-robin tournament.

name: "Summer Cup"
venue: "Riverside Sports Park"

# Surface sets the default match length: grass 90 minutes, beach 60.
surface: grass

# Competition model: league_knockout, league_only or knockout_only.
# Run "cupplan models" to compare the suggested structures.
model: league_knockout

# Tournament days, inclusive.
start_date: "2026-07-11"
end_date: "2026-07-12"

# Daily playing window in 24-hour format. Only whole matches are scheduled,
# so a window that is not a multiple of match_duration leaves a gap at the end.
start_time: "09:00"
end_time: "19:00"

# Match length in minutes. Omit to use the surface default.
# match_duration: 90

# Number of fields that can host a match at the same time.
fields: 2

# Number of groups. Omit to use the balanced suggestion for the team count
# (up to 6 teams: 1, up to 8: 2, up to 12: 3, otherwise 4).
# groups: 2

# Keep a team from being booked on two fields in the same slot. Off by
# default; clashes are then reported as warnings by generate and validate.
# exclusive_slots: true

# Teams in seed order, strongest first. Seeds are dealt into groups in a
# snake so every group gets a fair mix. Blank and duplicate names are ignored.
teams:
  - Sharks
  - Jets
  - Tide
  - Gulls
  - Crabs
  - Pelicans
  - Dunes
  - Breakers
`
