/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

// Package storage persists dashboard layouts.
// A layout is one opaque JSON record per user, kept in a key-value slot.
// Three slot backends exist: plain files with transactional writes, an embedded SQLite
// database, and a shared Postgres database. Layouts sits on top of any of them and never
// lets a missing or broken record reach the caller.
package storage
