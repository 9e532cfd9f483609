package xfer

import (
	"encoding/csv"
	"encoding/json"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/soniakeys/meeus/julian"
)

// orbitRecord is the wire layout of an orbit, shared by every format.
type orbitRecord struct {
	XMLName         xml.Name `json:"-" xml:"Orbit"`
	ID              uint64   `json:"id" xml:"id"`
	Name            string   `json:"name" xml:"name"`
	AltitudePerigee float64  `json:"altitude_perigee" xml:"altitude_perigee"`
	AltitudeApogee  float64  `json:"altitude_apogee" xml:"altitude_apogee"`
	Inclination     float64  `json:"inclination" xml:"inclination"`
	RAAN            float64  `json:"raan" xml:"raan"`
	ArgP            float64  `json:"argp" xml:"argp"`
	Nu              float64  `json:"nu" xml:"nu"`
	CentralBody     string   `json:"central_body" xml:"central_body"`
}

func (o Orbit) record() orbitRecord {
	return orbitRecord{
		ID:              o.id,
		Name:            o.name,
		AltitudePerigee: o.altPerigee,
		AltitudeApogee:  o.altApogee,
		Inclination:     o.i,
		RAAN:            o.Ω,
		ArgP:            o.ω,
		Nu:              o.ν,
		CentralBody:     o.body.Name,
	}
}

func orbitFromRecord(rec orbitRecord) (*Orbit, error) {
	if rec.ID == 0 {
		return nil, errors.New("orbit record has no id")
	}
	body := Earth
	if rec.CentralBody != "" {
		var err error
		if body, err = BodyFromName(rec.CentralBody); err != nil {
			return nil, err
		}
	}
	return NewOrbitWithID(rec.ID, rec.Name, rec.AltitudePerigee, rec.AltitudeApogee, rec.Inclination, rec.RAAN, rec.ArgP, rec.Nu, body)
}

// ToJSON serializes this orbit as JSON.
func (o Orbit) ToJSON(w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(o.record())
}

// OrbitFromJSON reconstructs an orbit from its JSON record. The record must
// carry a non-zero id.
func OrbitFromJSON(r io.Reader) (*Orbit, error) {
	var rec orbitRecord
	if err := json.NewDecoder(r).Decode(&rec); err != nil {
		return nil, err
	}
	return orbitFromRecord(rec)
}

var orbitCSVHeader = []string{"id", "name", "altitude_perigee", "altitude_apogee", "inclination", "raan", "argp", "nu", "central_body"}

// ToCSV serializes this orbit as a two-row CSV (header plus record).
func (o Orbit) ToCSV(w io.Writer) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(orbitCSVHeader); err != nil {
		return err
	}
	rec := o.record()
	row := []string{
		strconv.FormatUint(rec.ID, 10),
		rec.Name,
		fmtFloat(rec.AltitudePerigee),
		fmtFloat(rec.AltitudeApogee),
		fmtFloat(rec.Inclination),
		fmtFloat(rec.RAAN),
		fmtFloat(rec.ArgP),
		fmtFloat(rec.Nu),
		rec.CentralBody,
	}
	if err := cw.Write(row); err != nil {
		return err
	}
	cw.Flush()
	return cw.Error()
}

// OrbitFromCSV reconstructs an orbit from its CSV record.
func OrbitFromCSV(r io.Reader) (*Orbit, error) {
	rows, err := csv.NewReader(r).ReadAll()
	if err != nil {
		return nil, err
	}
	if len(rows) < 2 {
		return nil, errors.New("orbit CSV is missing its header or data row")
	}
	cols := make(map[string]string, len(rows[0]))
	for i, h := range rows[0] {
		if i < len(rows[1]) {
			cols[h] = rows[1][i]
		}
	}
	var rec orbitRecord
	if rec.ID, err = strconv.ParseUint(cols["id"], 10, 64); err != nil {
		return nil, fmt.Errorf("orbit CSV id: %s", err)
	}
	rec.Name = cols["name"]
	rec.CentralBody = cols["central_body"]
	for _, f := range []struct {
		name string
		into *float64
	}{
		{"altitude_perigee", &rec.AltitudePerigee},
		{"altitude_apogee", &rec.AltitudeApogee},
		{"inclination", &rec.Inclination},
		{"raan", &rec.RAAN},
		{"argp", &rec.ArgP},
		{"nu", &rec.Nu},
	} {
		if *f.into, err = strconv.ParseFloat(cols[f.name], 64); err != nil {
			return nil, fmt.Errorf("orbit CSV %s: %s", f.name, err)
		}
	}
	return orbitFromRecord(rec)
}

// ToXML serializes this orbit as XML.
func (o Orbit) ToXML(w io.Writer) error {
	enc := xml.NewEncoder(w)
	enc.Indent("", "  ")
	return enc.Encode(o.record())
}

// OrbitFromXML reconstructs an orbit from its XML record.
func OrbitFromXML(r io.Reader) (*Orbit, error) {
	var rec orbitRecord
	if err := xml.NewDecoder(r).Decode(&rec); err != nil {
		return nil, err
	}
	return orbitFromRecord(rec)
}

// pointRecord is the wire layout of a trajectory point. The time field is
// an elapsed duration label (e.g. "1h41m20s"), not an absolute timestamp.
type pointRecord struct {
	Time     string    `json:"time" xml:"time"`
	Position []float64 `json:"position" xml:"position>coord"`
	Velocity []float64 `json:"velocity" xml:"velocity>coord"`
}

// trajectoryRecord is the wire layout of a trajectory. The time of flight
// is expressed in hours.
type trajectoryRecord struct {
	XMLName        xml.Name      `json:"-" xml:"Trajectory"`
	ID             uint64        `json:"id" xml:"id"`
	Name           string        `json:"name" xml:"name"`
	ΔV1            float64       `json:"delta_v1" xml:"delta_v1"`
	ΔV2            float64       `json:"delta_v2" xml:"delta_v2"`
	TimeOfFlight   float64       `json:"time_of_flight" xml:"time_of_flight"`
	InitialOrbitID uint64        `json:"initial_orbit_id" xml:"initial_orbit_id"`
	TargetOrbitID  uint64        `json:"target_orbit_id" xml:"target_orbit_id"`
	TransferType   string        `json:"transfer_type" xml:"transfer_type"`
	Points         []pointRecord `json:"points" xml:"Points>Point"`
}

func (t Trajectory) record() trajectoryRecord {
	rec := trajectoryRecord{
		ID:             t.ID,
		Name:           t.Name,
		ΔV1:            t.ΔV1,
		ΔV2:            t.ΔV2,
		TimeOfFlight:   t.TOF.Hours(),
		InitialOrbitID: t.InitialOrbitID,
		TargetOrbitID:  t.TargetOrbitID,
		TransferType:   t.TransferType,
		Points:         make([]pointRecord, len(t.Points)),
	}
	for i, p := range t.Points {
		rec.Points[i] = pointRecord{
			Time:     p.Elapsed.String(),
			Position: p.Position,
			Velocity: p.Velocity,
		}
	}
	return rec
}

func trajectoryFromRecord(rec trajectoryRecord) (*Trajectory, error) {
	t := &Trajectory{
		ID:             rec.ID,
		Name:           rec.Name,
		ΔV1:            rec.ΔV1,
		ΔV2:            rec.ΔV2,
		TOF:            time.Duration(rec.TimeOfFlight * float64(time.Hour)),
		InitialOrbitID: rec.InitialOrbitID,
		TargetOrbitID:  rec.TargetOrbitID,
		TransferType:   rec.TransferType,
	}
	for _, p := range rec.Points {
		elapsed, err := time.ParseDuration(p.Time)
		if err != nil {
			return nil, fmt.Errorf("trajectory point time %q: %s", p.Time, err)
		}
		if len(p.Position) != 3 || len(p.Velocity) != 3 {
			return nil, errors.New("trajectory point must carry 3 position and 3 velocity components")
		}
		t.Points = append(t.Points, Point{Elapsed: elapsed, Position: p.Position, Velocity: p.Velocity})
	}
	return t, nil
}

// ToJSON serializes this trajectory as JSON.
func (t Trajectory) ToJSON(w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(t.record())
}

// TrajectoryFromJSON reconstructs a trajectory from its JSON record.
func TrajectoryFromJSON(r io.Reader) (*Trajectory, error) {
	var rec trajectoryRecord
	if err := json.NewDecoder(r).Decode(&rec); err != nil {
		return nil, err
	}
	return trajectoryFromRecord(rec)
}

// ToXML serializes this trajectory as XML.
func (t Trajectory) ToXML(w io.Writer) error {
	enc := xml.NewEncoder(w)
	enc.Indent("", "  ")
	return enc.Encode(t.record())
}

// TrajectoryFromXML reconstructs a trajectory from its XML record.
func TrajectoryFromXML(r io.Reader) (*Trajectory, error) {
	var rec trajectoryRecord
	if err := xml.NewDecoder(r).Decode(&rec); err != nil {
		return nil, err
	}
	return trajectoryFromRecord(rec)
}

var trajectoryCSVHeader = []string{
	"id", "name", "delta_v1", "delta_v2", "time_of_flight",
	"initial_orbit_id", "target_orbit_id", "transfer_type",
	"time", "position_x", "position_y", "position_z",
	"velocity_x", "velocity_y", "velocity_z",
}

// ToCSV serializes this trajectory as CSV, one row per point with the
// metadata columns repeated. A trajectory without points still gets one
// metadata-only row.
func (t Trajectory) ToCSV(w io.Writer) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(trajectoryCSVHeader); err != nil {
		return err
	}
	meta := []string{
		strconv.FormatUint(t.ID, 10),
		t.Name,
		fmtFloat(t.ΔV1),
		fmtFloat(t.ΔV2),
		fmtFloat(t.TOF.Hours()),
		strconv.FormatUint(t.InitialOrbitID, 10),
		strconv.FormatUint(t.TargetOrbitID, 10),
		t.TransferType,
	}
	if len(t.Points) == 0 {
		row := append(append([]string{}, meta...), "", "", "", "", "", "", "")
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	for _, p := range t.Points {
		row := append(append([]string{}, meta...),
			p.Elapsed.String(),
			fmtFloat(p.Position[0]), fmtFloat(p.Position[1]), fmtFloat(p.Position[2]),
			fmtFloat(p.Velocity[0]), fmtFloat(p.Velocity[1]), fmtFloat(p.Velocity[2]),
		)
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// TrajectoryFromCSV reconstructs a trajectory from its CSV record.
func TrajectoryFromCSV(r io.Reader) (*Trajectory, error) {
	rows, err := csv.NewReader(r).ReadAll()
	if err != nil {
		return nil, err
	}
	if len(rows) < 2 {
		return nil, errors.New("trajectory CSV is missing its header or data rows")
	}
	idx := make(map[string]int, len(rows[0]))
	for i, h := range rows[0] {
		idx[h] = i
	}
	at := func(row []string, col string) string {
		i, found := idx[col]
		if !found || i >= len(row) {
			return ""
		}
		return row[i]
	}
	first := rows[1]
	var rec trajectoryRecord
	if rec.ID, err = strconv.ParseUint(at(first, "id"), 10, 64); err != nil {
		return nil, fmt.Errorf("trajectory CSV id: %s", err)
	}
	rec.Name = at(first, "name")
	rec.TransferType = at(first, "transfer_type")
	if rec.ΔV1, err = strconv.ParseFloat(at(first, "delta_v1"), 64); err != nil {
		return nil, fmt.Errorf("trajectory CSV delta_v1: %s", err)
	}
	if rec.ΔV2, err = strconv.ParseFloat(at(first, "delta_v2"), 64); err != nil {
		return nil, fmt.Errorf("trajectory CSV delta_v2: %s", err)
	}
	if rec.TimeOfFlight, err = strconv.ParseFloat(at(first, "time_of_flight"), 64); err != nil {
		return nil, fmt.Errorf("trajectory CSV time_of_flight: %s", err)
	}
	if rec.InitialOrbitID, err = strconv.ParseUint(at(first, "initial_orbit_id"), 10, 64); err != nil {
		return nil, fmt.Errorf("trajectory CSV initial_orbit_id: %s", err)
	}
	if rec.TargetOrbitID, err = strconv.ParseUint(at(first, "target_orbit_id"), 10, 64); err != nil {
		return nil, fmt.Errorf("trajectory CSV target_orbit_id: %s", err)
	}
	for _, row := range rows[1:] {
		if at(row, "time") == "" {
			continue // metadata-only row of an empty trajectory
		}
		point := pointRecord{Time: at(row, "time"), Position: make([]float64, 3), Velocity: make([]float64, 3)}
		for i, col := range []string{"position_x", "position_y", "position_z"} {
			if point.Position[i], err = strconv.ParseFloat(at(row, col), 64); err != nil {
				return nil, fmt.Errorf("trajectory CSV %s: %s", col, err)
			}
		}
		for i, col := range []string{"velocity_x", "velocity_y", "velocity_z"} {
			if point.Velocity[i], err = strconv.ParseFloat(at(row, col), 64); err != nil {
				return nil, fmt.Errorf("trajectory CSV %s: %s", col, err)
			}
		}
		rec.Points = append(rec.Points, point)
	}
	return trajectoryFromRecord(rec)
}

// WriteEphemeris writes the trajectory as timestamped state records, one
// `<jd> <x> <y> <z> <vel x> <vel y> <vel z>` line per point, where the
// Julian date anchors each point's elapsed time to the provided epoch.
func WriteEphemeris(w io.Writer, t *Trajectory, epoch time.Time) error {
	if _, err := fmt.Fprintf(w, `# Records are <jd> <x> <y> <z> <vel x> <vel y> <vel z>
#   Position in km
#   Velocity in km/sec
#   Epoch (UTC): %s
`, epoch.UTC()); err != nil {
		return err
	}
	for _, p := range t.Points {
		jd := julian.TimeToJD(epoch.Add(p.Elapsed))
		if _, err := fmt.Fprintf(w, "%f %f %f %f %f %f %f\n", jd,
			p.Position[0], p.Position[1], p.Position[2],
			p.Velocity[0], p.Velocity[1], p.Velocity[2]); err != nil {
			return err
		}
	}
	return nil
}

// ParseEphemeris reads the records written by WriteEphemeris back into
// points. Elapsed times are recovered relative to the first record.
func ParseEphemeris(r io.Reader) ([]Point, error) {
	cr := csv.NewReader(r)
	cr.Comma = ' '
	cr.Comment = '#'
	var points []Point
	var jd0 float64
	for {
		record, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		if len(record) != 7 {
			return nil, fmt.Errorf("ephemeris record has %d fields, expected 7", len(record))
		}
		vals := make([]float64, 7)
		for i, field := range record {
			if vals[i], err = strconv.ParseFloat(strings.TrimSpace(field), 64); err != nil {
				return nil, fmt.Errorf("ephemeris field %d: %s", i, err)
			}
		}
		if len(points) == 0 {
			jd0 = vals[0]
		}
		points = append(points, Point{
			Elapsed:  time.Duration((vals[0] - jd0) * 86400 * float64(time.Second)),
			Position: vals[1:4],
			Velocity: vals[4:7],
		})
	}
	return points, nil
}

// ExportTrajectory writes the trajectory to a file in the configured output
// directory and returns its path. Supported formats: json, csv, xml, xyzv.
func ExportTrajectory(t *Trajectory, format string) (string, error) {
	filename := filepath.Join(xferConfig().outputDir, fmt.Sprintf("trajectory-%d.%s", t.ID, format))
	f, err := os.Create(filename)
	if err != nil {
		return "", err
	}
	defer f.Close()
	switch format {
	case "json":
		err = t.ToJSON(f)
	case "csv":
		err = t.ToCSV(f)
	case "xml":
		err = t.ToXML(f)
	case "xyzv":
		err = WriteEphemeris(f, t, time.Now())
	default:
		err = fmt.Errorf("unsupported export format %q", format)
	}
	if err != nil {
		return "", err
	}
	return filename, nil
}

// ExportOrbit writes the orbit to a file in the configured output directory
// and returns its path. Supported formats: json, csv, xml.
func ExportOrbit(o *Orbit, format string) (string, error) {
	filename := filepath.Join(xferConfig().outputDir, fmt.Sprintf("orbit-%d.%s", o.ID(), format))
	f, err := os.Create(filename)
	if err != nil {
		return "", err
	}
	defer f.Close()
	switch format {
	case "json":
		err = o.ToJSON(f)
	case "csv":
		err = o.ToCSV(f)
	case "xml":
		err = o.ToXML(f)
	default:
		err = fmt.Errorf("unsupported export format %q", format)
	}
	if err != nil {
		return "", err
	}
	return filename, nil
}

// fmtFloat formats a float with enough digits to round-trip exactly.
func fmtFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}
