package store

const schemaPostgres = `
CREATE TABLE IF NOT EXISTS vehicles (
    id             BIGSERIAL PRIMARY KEY,
    uuid           TEXT NOT NULL UNIQUE,
    vehicle_number TEXT NOT NULL,
    entry_time     TIMESTAMPTZ NOT NULL,
    exit_time      TIMESTAMPTZ,
    version        BIGINT NOT NULL DEFAULT 1
);
CREATE INDEX IF NOT EXISTS idx_vehicles_number ON vehicles(vehicle_number);
CREATE INDEX IF NOT EXISTS idx_vehicles_entry ON vehicles(entry_time);

CREATE TABLE IF NOT EXISTS stage_events (
    id         BIGSERIAL PRIMARY KEY,
    vehicle_id BIGINT NOT NULL REFERENCES vehicles(id) ON DELETE CASCADE,
    stage_name TEXT NOT NULL,
    role       TEXT NOT NULL,
    event_type TEXT NOT NULL,
    timestamp  TIMESTAMPTZ NOT NULL,
    in_km      DOUBLE PRECISION,
    out_km     DOUBLE PRECISION,
    in_driver  TEXT,
    out_driver TEXT,
    work_type  TEXT,
    bay_number TEXT
);
CREATE INDEX IF NOT EXISTS idx_stage_events_vehicle ON stage_events(vehicle_id);
CREATE INDEX IF NOT EXISTS idx_stage_events_stage ON stage_events(stage_name, event_type);

CREATE TABLE IF NOT EXISTS users (
    id            BIGSERIAL PRIMARY KEY,
    name          TEXT NOT NULL,
    mobile        TEXT NOT NULL UNIQUE,
    email         TEXT,
    password_hash TEXT NOT NULL,
    role          TEXT NOT NULL,
    created_at    TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

CREATE TABLE IF NOT EXISTS outbox (
    id         BIGSERIAL PRIMARY KEY,
    topic      TEXT NOT NULL,
    payload    BYTEA NOT NULL,
    msg_type   TEXT NOT NULL DEFAULT '',
    retries    INTEGER NOT NULL DEFAULT 0,
    created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
    sent_at    TIMESTAMPTZ
);
CREATE INDEX IF NOT EXISTS idx_outbox_pending ON outbox(sent_at) WHERE sent_at IS NULL;
`
