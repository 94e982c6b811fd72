package pulses

import (
	"fmt"

	_ "github.com/go-sql-driver/mysql"
	sqlx "github.com/jmoiron/sqlx" //make alias name the package to sqlx
)

func ConnectToDatabase(user string, pass string, host string, dbname string) (*sqlx.DB, error) {
	port := "3306"
	dbURI := fmt.Sprintf("%s:%s@(%s:%s)/%s?parseTime=true", user, pass, host, port, dbname)
	db, err := sqlx.Connect("mysql", dbURI)
	return db, err
}

// GetGeometryFromDB reads the sensor positions stored in the SensorGeometry table.
func GetGeometryFromDB(db *sqlx.DB) (*Geometry, error) {
	query := "SELECT SensorID, X, Y, Z FROM SensorGeometry ORDER BY SensorID"

	if configuration.Verbosity > 0 {
		logger.Info("Sensor geometry read from DB", "database")
	}
	if configuration.Verbosity > 2 {
		message := fmt.Sprintf("Query: %s", query)
		logger.Info(message, "database")
	}

	rows, err := db.Queryx(query)
	if err != nil {
		errMessage := fmt.Errorf("error querying database: %w", err)
		return nil, errMessage
	}
	defer rows.Close()

	sensors := make([]Sensor, 0)
	for rows.Next() {
		result := Sensor{}
		err := rows.StructScan(&result)
		if err != nil {
			errMessage := fmt.Errorf("error scanning DB row: %w", err)
			return nil, errMessage
		}
		sensors = append(sensors, result)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating DB rows: %w", err)
	}
	return NewGeometry(sensors)
}
