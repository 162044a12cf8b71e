package store

// schemaSQL is the DDL for all tables.
const schemaSQL = `
-- Uploaded sources and their processing results, one row per request
CREATE TABLE IF NOT EXISTS documents (
    id INTEGER PRIMARY KEY,
    user_id TEXT NOT NULL,
    filename TEXT NOT NULL,
    original_text TEXT NOT NULL,
    content_hash TEXT NOT NULL,
    citation_format TEXT NOT NULL DEFAULT 'APA',
    keyword TEXT NOT NULL,
    author TEXT NOT NULL,
    publication_year INTEGER NOT NULL,
    paraphrased TEXT,
    citation TEXT,
    definition_found INTEGER NOT NULL DEFAULT 0,
    original_definition TEXT,
    sentence_count INTEGER NOT NULL DEFAULT 2,
    actual_sentence_count INTEGER,
    processing_type TEXT,
    confidence_level TEXT,
    processed_at DATETIME,
    created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
    updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
);

-- Generation audit log
CREATE TABLE IF NOT EXISTS generation_log (
    id INTEGER PRIMARY KEY,
    document_id INTEGER REFERENCES documents(id) ON DELETE CASCADE,
    keyword TEXT NOT NULL,
    kind TEXT NOT NULL,
    model_used TEXT,
    fallback INTEGER NOT NULL DEFAULT 0,
    sentence_count INTEGER,
    prompt_tokens INTEGER DEFAULT 0,
    completion_tokens INTEGER DEFAULT 0,
    elapsed_ms INTEGER DEFAULT 0,
    created_at DATETIME DEFAULT CURRENT_TIMESTAMP
);

-- Indexes
CREATE INDEX IF NOT EXISTS idx_documents_hash ON documents(content_hash);
CREATE INDEX IF NOT EXISTS idx_generation_log_document ON generation_log(document_id);
`
