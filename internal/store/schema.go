package store

const schemaSQL = `
CREATE TABLE IF NOT EXISTS scenarios (
    scenario_id          TEXT PRIMARY KEY,
    name                 TEXT NOT NULL UNIQUE,
    burn_rate            REAL NOT NULL,
    current_savings      REAL NOT NULL,
    goal                 REAL NOT NULL,
    reduction_percent    REAL NOT NULL,
    created_at           TEXT NOT NULL,
    updated_at           TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS scenario_categories (
    scenario_id          TEXT NOT NULL REFERENCES scenarios(scenario_id) ON DELETE CASCADE,
    position             INTEGER NOT NULL,
    name                 TEXT NOT NULL,
    amount               REAL NOT NULL,
    PRIMARY KEY (scenario_id, position)
);

CREATE INDEX IF NOT EXISTS idx_scenarios_name ON scenarios(name);
`
