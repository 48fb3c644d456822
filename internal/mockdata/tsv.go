package mockdata

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/avolkov/six-cities/internal/offer"
)

// fieldCount is the number of tab-separated columns per record.
const fieldCount = 18

var header = strings.Join([]string{
	"id", "title", "description", "publicationDate", "city",
	"previewImage", "images", "isPremium", "isFavorite", "rating",
	"type", "bedrooms", "maxGuests", "price", "amenities",
	"author", "commentsCount", "coordinates",
}, "\t")

// WriteTSV writes records in the fixture format, header line first.
func WriteTSV(w io.Writer, records []Record) error {
	bw := bufio.NewWriter(w)

	if _, err := fmt.Fprintln(bw, header); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}

	for _, r := range records {
		if _, err := fmt.Fprintln(bw, recordToLine(r)); err != nil {
			return fmt.Errorf("writing record: %w", err)
		}
	}

	return bw.Flush()
}

// ReadTSV parses records from the fixture format. The header line,
// blank lines and lines with the wrong column count are skipped, so a
// truncated file yields its intact prefix.
func ReadTSV(r io.Reader) ([]Record, error) {
	var records []Record

	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for sc.Scan() {
		line := sc.Text()
		if strings.TrimSpace(line) == "" || line == header {
			continue
		}

		fields := strings.Split(line, "\t")
		if len(fields) != fieldCount {
			continue
		}

		rec, err := lineToRecord(fields)
		if err != nil {
			return nil, err
		}
		records = append(records, rec)
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("reading records: %w", err)
	}

	return records, nil
}

func recordToLine(r Record) string {
	images := strings.Join(r.Images, ",")
	amenities := make([]string, 0, len(r.Amenities))
	for _, a := range r.Amenities {
		amenities = append(amenities, string(a))
	}
	coordinates := fmt.Sprintf("%v,%v", r.Coordinates.Latitude, r.Coordinates.Longitude)

	return strings.Join([]string{
		r.ID,
		r.Title,
		r.Description,
		r.PublicationDate.Format(time.RFC3339),
		string(r.City),
		r.PreviewImage,
		images,
		strconv.FormatBool(r.IsPremium),
		strconv.FormatBool(r.IsFavorite),
		strconv.FormatFloat(r.Rating, 'f', -1, 64),
		string(r.Type),
		strconv.Itoa(r.Bedrooms),
		strconv.Itoa(r.MaxGuests),
		strconv.Itoa(r.Price),
		strings.Join(amenities, ","),
		r.Author,
		strconv.Itoa(r.CommentsCount),
		coordinates,
	}, "\t")
}

func lineToRecord(fields []string) (Record, error) {
	publicationDate, err := time.Parse(time.RFC3339, fields[3])
	if err != nil {
		return Record{}, fmt.Errorf("parsing publicationDate %q: %w", fields[3], err)
	}

	rating, err := strconv.ParseFloat(fields[9], 64)
	if err != nil {
		return Record{}, fmt.Errorf("parsing rating %q: %w", fields[9], err)
	}

	bedrooms, err := strconv.Atoi(fields[11])
	if err != nil {
		return Record{}, fmt.Errorf("parsing bedrooms %q: %w", fields[11], err)
	}
	maxGuests, err := strconv.Atoi(fields[12])
	if err != nil {
		return Record{}, fmt.Errorf("parsing maxGuests %q: %w", fields[12], err)
	}
	price, err := strconv.Atoi(fields[13])
	if err != nil {
		return Record{}, fmt.Errorf("parsing price %q: %w", fields[13], err)
	}
	commentsCount, err := strconv.Atoi(fields[16])
	if err != nil {
		return Record{}, fmt.Errorf("parsing commentsCount %q: %w", fields[16], err)
	}

	coordinates, err := parseCoordinates(fields[17])
	if err != nil {
		return Record{}, err
	}

	var amenities []offer.Amenity
	if fields[14] != "" {
		for _, a := range strings.Split(fields[14], ",") {
			amenities = append(amenities, offer.Amenity(a))
		}
	}

	return Record{
		ID:              fields[0],
		Title:           fields[1],
		Description:     fields[2],
		PublicationDate: publicationDate,
		City:            offer.City(fields[4]),
		PreviewImage:    fields[5],
		Images:          strings.Split(fields[6], ","),
		IsPremium:       fields[7] == "true",
		IsFavorite:      fields[8] == "true",
		Rating:          rating,
		Type:            offer.HousingType(fields[10]),
		Bedrooms:        bedrooms,
		MaxGuests:       maxGuests,
		Price:           price,
		Amenities:       amenities,
		Author:          fields[15],
		CommentsCount:   commentsCount,
		Coordinates:     coordinates,
	}, nil
}

func parseCoordinates(s string) (offer.Coordinates, error) {
	parts := strings.SplitN(s, ",", 2)
	if len(parts) != 2 {
		return offer.Coordinates{}, fmt.Errorf("malformed coordinates %q", s)
	}

	lat, err := strconv.ParseFloat(parts[0], 64)
	if err != nil {
		return offer.Coordinates{}, fmt.Errorf("parsing latitude %q: %w", parts[0], err)
	}
	lon, err := strconv.ParseFloat(parts[1], 64)
	if err != nil {
		return offer.Coordinates{}, fmt.Errorf("parsing longitude %q: %w", parts[1], err)
	}

	return offer.Coordinates{Latitude: lat, Longitude: lon}, nil
}
